package resolver

import (
	"github.com/rs/zerolog"

	"github.com/stackb/pyimports/pkg/importfs"
)

// Option configures a Resolver.
type Option func(*Resolver) *Resolver

// TrackedFileFunc reports whether a source file belongs to the user's
// project (as opposed to a library).
type TrackedFileFunc func(sourceFile string, env *ExecutionEnvironment) bool

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) *Resolver {
		r.logger = logger
		return r
	}
}

// WithVerbose records every searched root in failure trails and logs failed
// resolutions at debug level.
func WithVerbose(verbose bool) Option {
	return func(r *Resolver) *Resolver {
		r.verbose = verbose
		return r
	}
}

// WithFileSystem replaces the operating system filesystem.
func WithFileSystem(fs importfs.FileSystem) Option {
	return func(r *Resolver) *Resolver {
		r.fs = fs
		return r
	}
}

// WithHost sets the interpreter search path provider.
func WithHost(host Host) Option {
	return func(r *Resolver) *Resolver {
		r.host = host
		return r
	}
}

// WithPythonPath names the interpreter passed to the Host.
func WithPythonPath(pythonPath string) Option {
	return func(r *Resolver) *Resolver {
		r.pythonPath = pythonPath
		return r
	}
}

// WithExtensions sets the extension strategy.
func WithExtensions(ext Extensions) Option {
	return func(r *Resolver) *Resolver {
		r.ext = ext
		return r
	}
}

// WithTypeshedPath sets the typeshed checkout holding stdlib/ and stubs/.
func WithTypeshedPath(path string) Option {
	return func(r *Resolver) *Resolver {
		r.typeshedPath = path
		return r
	}
}

// WithStubPath sets the project's local stub directory, searched first.
func WithStubPath(path string) Option {
	return func(r *Resolver) *Resolver {
		r.stubPath = path
		return r
	}
}

// WithTrackedFiles replaces the default tracked file test, which accepts
// files under the environment root. The result only partitions the result
// cache; the parent directory walk runs for every source file.
func WithTrackedFiles(fn TrackedFileFunc) Option {
	return func(r *Resolver) *Resolver {
		r.isTracked = fn
		return r
	}
}
