package importfs

// CountingFileSystem wraps a FileSystem and counts every call that reaches it.
// It is used to observe how many probes a caching layer lets through.
type CountingFileSystem struct {
	next  FileSystem
	calls map[string]int
}

// NewCountingFileSystem wraps next with zeroed counters.
func NewCountingFileSystem(next FileSystem) *CountingFileSystem {
	return &CountingFileSystem{
		next:  next,
		calls: make(map[string]int),
	}
}

// Total returns the number of calls made across all methods.
func (c *CountingFileSystem) Total() int {
	var n int
	for _, v := range c.calls {
		n += v
	}
	return n
}

// Calls returns the number of calls made to the named method.
func (c *CountingFileSystem) Calls(method string) int {
	return c.calls[method]
}

// Reset zeroes all counters.
func (c *CountingFileSystem) Reset() {
	c.calls = make(map[string]int)
}

// Exists implements FileSystem.
func (c *CountingFileSystem) Exists(path string) bool {
	c.calls["Exists"]++
	return c.next.Exists(path)
}

// Stat implements FileSystem.
func (c *CountingFileSystem) Stat(path string) (Stat, error) {
	c.calls["Stat"]++
	return c.next.Stat(path)
}

// ReadDirEntries implements FileSystem.
func (c *CountingFileSystem) ReadDirEntries(path string) ([]Entry, error) {
	c.calls["ReadDirEntries"]++
	return c.next.ReadDirEntries(path)
}

// ReadFile implements FileSystem.
func (c *CountingFileSystem) ReadFile(path string) (string, error) {
	c.calls["ReadFile"]++
	return c.next.ReadFile(path)
}

// RealPath implements FileSystem.
func (c *CountingFileSystem) RealPath(path string) (string, error) {
	c.calls["RealPath"]++
	return c.next.RealPath(path)
}
