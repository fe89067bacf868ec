// Package pyconfig loads the YAML configuration of a resolver: global search
// settings plus the execution environments of a project.
package pyconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/stackb/pyimports/pkg/host"
	"github.com/stackb/pyimports/pkg/importfs"
	"github.com/stackb/pyimports/pkg/procutil"
	"github.com/stackb/pyimports/pkg/pyversion"
	"github.com/stackb/pyimports/pkg/resolver"
)

// FileName is the conventional configuration file name.
const FileName = "pyimports.yaml"

// DefaultExclude is used when the configuration names no exclude patterns.
var DefaultExclude = []string{
	"**/node_modules",
	"**/__pycache__",
	"**/.*",
}

// EnvironmentConfig is one entry of executionEnvironments.
type EnvironmentConfig struct {
	Root           string            `yaml:"root"`
	ExtraPaths     []string          `yaml:"extraPaths,omitempty"`
	PythonVersion  pyversion.Version `yaml:"pythonVersion,omitempty"`
	PythonPlatform string            `yaml:"pythonPlatform,omitempty"`
}

// Config models pyimports.yaml. Relative paths are relative to the directory
// holding the file.
type Config struct {
	TypeshedPath   string            `yaml:"typeshedPath,omitempty"`
	StubPath       string            `yaml:"stubPath,omitempty"`
	VerboseOutput  bool              `yaml:"verboseOutput,omitempty"`
	VenvPath       string            `yaml:"venvPath,omitempty"`
	Venv           string            `yaml:"venv,omitempty"`
	PythonPath     string            `yaml:"pythonPath,omitempty"`
	SearchPaths    []string          `yaml:"searchPaths,omitempty"`
	ExtraPaths     []string          `yaml:"extraPaths,omitempty"`
	PythonVersion  pyversion.Version `yaml:"pythonVersion,omitempty"`
	PythonPlatform string            `yaml:"pythonPlatform,omitempty"`
	Include        []string          `yaml:"include,omitempty"`
	Exclude        []string          `yaml:"exclude,omitempty"`

	Environments []EnvironmentConfig `yaml:"executionEnvironments,omitempty"`

	// dir is the project directory
	dir string
}

// New returns the configuration used when a project has no file.
func New(dir string) *Config {
	return &Config{dir: filepath.Clean(dir)}
}

// Load reads a configuration file. A missing file yields the default
// configuration for its directory.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return New(filepath.Dir(filename)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	c, err := Parse(bytes.NewReader(data), filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// Parse decodes a configuration for the project at dir. Unknown keys are
// rejected.
func Parse(r io.Reader, dir string) (*Config, error) {
	c := New(dir)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.absolutize()
	return c, nil
}

func (c *Config) validate() error {
	for i, env := range c.Environments {
		if env.Root == "" {
			return fmt.Errorf("executionEnvironments[%d]: root is required", i)
		}
	}
	for _, pattern := range append(append([]string(nil), c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return nil
}

func (c *Config) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, filepath.FromSlash(path))
}

func (c *Config) absAll(paths []string) []string {
	for i, p := range paths {
		paths[i] = c.abs(p)
	}
	return paths
}

func (c *Config) absolutize() {
	c.TypeshedPath = c.abs(c.TypeshedPath)
	c.StubPath = c.abs(c.StubPath)
	c.VenvPath = c.abs(c.VenvPath)
	c.SearchPaths = c.absAll(c.SearchPaths)
	c.ExtraPaths = c.absAll(c.ExtraPaths)
	for i := range c.Environments {
		env := &c.Environments[i]
		env.Root = c.abs(env.Root)
		env.ExtraPaths = c.absAll(env.ExtraPaths)
	}
}

// Dir returns the project directory.
func (c *Config) Dir() string {
	return c.dir
}

// Verbose reports whether resolution trails are logged. PYIMPORTS_VERBOSE
// overrides the file.
func (c *Config) Verbose() bool {
	return procutil.LookupBoolEnv(procutil.PYIMPORTS_VERBOSE, c.VerboseOutput)
}

// DefaultEnvironment applies to files outside every configured root.
func (c *Config) DefaultEnvironment() *resolver.ExecutionEnvironment {
	return &resolver.ExecutionEnvironment{
		Root:           c.dir,
		ExtraPaths:     c.ExtraPaths,
		PythonVersion:  c.PythonVersion,
		PythonPlatform: c.PythonPlatform,
	}
}

// ExecutionEnvironments returns the configured environments in file order.
// Unset versions and platforms are inherited from the top level.
func (c *Config) ExecutionEnvironments() []*resolver.ExecutionEnvironment {
	envs := make([]*resolver.ExecutionEnvironment, 0, len(c.Environments))
	for _, ec := range c.Environments {
		env := &resolver.ExecutionEnvironment{
			Root:           ec.Root,
			ExtraPaths:     ec.ExtraPaths,
			PythonVersion:  ec.PythonVersion,
			PythonPlatform: ec.PythonPlatform,
		}
		if env.ExtraPaths == nil {
			env.ExtraPaths = c.ExtraPaths
		}
		if env.PythonVersion.IsZero() {
			env.PythonVersion = c.PythonVersion
		}
		if env.PythonPlatform == "" {
			env.PythonPlatform = c.PythonPlatform
		}
		envs = append(envs, env)
	}
	return envs
}

// EnvironmentFor picks the first environment whose root contains file.
func (c *Config) EnvironmentFor(file string) *resolver.ExecutionEnvironment {
	file = c.abs(file)
	for _, env := range c.ExecutionEnvironments() {
		if rel, err := filepath.Rel(env.Root, file); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return env
		}
	}
	return c.DefaultEnvironment()
}

// IsTracked reports whether a source file is part of the project: it matches
// an include pattern (everything when there are none) and no exclude pattern.
// Patterns are matched against the slash path relative to the project
// directory and against each of its parent directories.
func (c *Config) IsTracked(sourceFile string, _ *resolver.ExecutionEnvironment) bool {
	rel, err := filepath.Rel(c.dir, c.abs(sourceFile))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	rel = filepath.ToSlash(rel)

	exclude := c.Exclude
	if len(exclude) == 0 {
		exclude = DefaultExclude
	}
	if matchAny(exclude, rel) {
		return false
	}
	if len(c.Include) == 0 {
		return true
	}
	return matchAny(c.Include, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		for p := rel; p != "." && p != ""; p = dirSlash(p) {
			if ok, _ := doublestar.Match(pattern, p); ok {
				return true
			}
		}
	}
	return false
}

func dirSlash(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// Host builds the search-path provider: static searchPaths, the virtualenv,
// then PYTHONPATH. The interpreter is asked only when neither searchPaths nor
// a virtualenv is configured.
func (c *Config) Host(fsys importfs.FileSystem, logger zerolog.Logger) resolver.Host {
	var chain host.Chain
	if len(c.SearchPaths) > 0 {
		chain = append(chain, &host.Static{Paths: c.SearchPaths})
	}
	if c.VenvPath != "" || c.Venv != "" {
		chain = append(chain, &host.Venv{FS: fsys, VenvPath: c.VenvPath, Venv: c.Venv})
	}
	chain = append(chain, host.Env{})
	if len(chain) == 1 {
		chain = append(chain, &host.Interpreter{FS: fsys, Logger: logger})
	}
	return chain
}

// ResolverOptions translates the configuration into resolver options.
func (c *Config) ResolverOptions(fsys importfs.FileSystem, logger zerolog.Logger) []resolver.Option {
	options := []resolver.Option{
		resolver.WithLogger(logger),
		resolver.WithVerbose(c.Verbose()),
		resolver.WithHost(c.Host(fsys, logger)),
		resolver.WithPythonPath(c.PythonPath),
		resolver.WithTypeshedPath(c.TypeshedPath),
		resolver.WithStubPath(c.StubPath),
		resolver.WithTrackedFiles(c.IsTracked),
	}
	if fsys != nil {
		options = append(options, resolver.WithFileSystem(fsys))
	}
	return options
}
