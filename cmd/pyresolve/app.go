package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-sharp/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stackb/pyimports/pkg/afsfs"
	"github.com/stackb/pyimports/pkg/importfs"
	"github.com/stackb/pyimports/pkg/logger"
	"github.com/stackb/pyimports/pkg/protobuf"
	"github.com/stackb/pyimports/pkg/pyconfig"
	"github.com/stackb/pyimports/pkg/pyversion"
	"github.com/stackb/pyimports/pkg/resolver"
)

const formatText = "text"

// config holds the persistent flags.
type config struct {
	projectDir     string
	configFile     string
	format         string
	debug          bool
	verbose        bool
	color          bool
	storageURL     string
	typeshedPath   string
	stubPath       string
	bundledStubs   string
	searchPaths    []string
	extraPaths     []string
	pythonVersion  string
	pythonPlatform string

	stdout io.Writer
	stderr io.Writer
}

func (cfg *config) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.projectDir, "project", ".", "project directory holding "+pyconfig.FileName)
	flags.StringVar(&cfg.configFile, "config", "", "configuration file (default: <project>/"+pyconfig.FileName+")")
	flags.StringVar(&cfg.format, "format", formatText, "output format: text|json|pbtext|delimited")
	flags.BoolVar(&cfg.debug, "debug", false, "dump raw results to stderr")
	flags.BoolVar(&cfg.verbose, "verbose", false, "log resolution trails")
	flags.BoolVar(&cfg.color, "color", false, "colorize text output")
	flags.StringVar(&cfg.storageURL, "storage_url", "", "serve all paths from this storage URL (mem://, gs://, s3://, file://)")
	flags.StringVar(&cfg.typeshedPath, "typeshed", "", "typeshed checkout (overrides typeshedPath)")
	flags.StringVar(&cfg.stubPath, "stub_path", "", "local stub directory (overrides stubPath)")
	flags.StringVar(&cfg.bundledStubs, "bundled_stubs", "", "stub directory consulted after the stdlib")
	flags.StringSliceVar(&cfg.searchPaths, "search_path", nil, "python search path (repeatable)")
	flags.StringSliceVar(&cfg.extraPaths, "extra_path", nil, "extra import root (repeatable)")
	flags.StringVar(&cfg.pythonVersion, "python_version", "", "target python version, e.g. 3.12")
	flags.StringVar(&cfg.pythonPlatform, "python_platform", "", "target platform: Linux, Darwin or Windows")
}

// app is what every subcommand runs against.
type app struct {
	cfg      *config
	project  *pyconfig.Config
	logger   zerolog.Logger
	resolver *resolver.Resolver
}

func newApp(cfg *config) (*app, error) {
	switch cfg.format {
	case formatText, string(protobuf.FormatJSON), string(protobuf.FormatPBText), string(protobuf.FormatDelimited):
	default:
		return nil, fmt.Errorf("invalid --format %q", cfg.format)
	}
	color.NoColor = !cfg.color

	projectDir, err := filepath.Abs(cfg.projectDir)
	if err != nil {
		return nil, err
	}
	configFile := cfg.configFile
	if configFile == "" {
		configFile = filepath.Join(projectDir, pyconfig.FileName)
	}
	project, err := pyconfig.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.override(project); err != nil {
		return nil, err
	}

	log := logger.New(cfg.verbose || project.Verbose(), cfg.stderr)

	var fsys importfs.FileSystem
	if cfg.storageURL != "" {
		fsys = afsfs.New(afs.New(), cfg.storageURL)
	}

	options := project.ResolverOptions(fsys, log)
	if cfg.verbose {
		options = append(options, resolver.WithVerbose(true))
	}
	if cfg.bundledStubs != "" {
		bundled, err := filepath.Abs(cfg.bundledStubs)
		if err != nil {
			return nil, err
		}
		options = append(options, resolver.WithExtensions(&resolver.BundledStubs{Root: bundled}))
	}

	return &app{
		cfg:      cfg,
		project:  project,
		logger:   log,
		resolver: resolver.New(options...),
	}, nil
}

// override applies command-line flags on top of the configuration file.
// Flag paths are relative to the working directory.
func (cfg *config) override(project *pyconfig.Config) error {
	var err error
	if project.TypeshedPath, err = absOr(cfg.typeshedPath, project.TypeshedPath); err != nil {
		return err
	}
	if project.StubPath, err = absOr(cfg.stubPath, project.StubPath); err != nil {
		return err
	}
	for _, p := range cfg.searchPaths {
		if p, err = filepath.Abs(p); err != nil {
			return err
		}
		project.SearchPaths = append(project.SearchPaths, p)
	}
	for _, p := range cfg.extraPaths {
		if p, err = filepath.Abs(p); err != nil {
			return err
		}
		project.ExtraPaths = append(project.ExtraPaths, p)
	}
	if cfg.pythonVersion != "" {
		if project.PythonVersion, err = pyversion.Parse(cfg.pythonVersion); err != nil {
			return err
		}
	}
	if cfg.pythonPlatform != "" {
		project.PythonPlatform = cfg.pythonPlatform
	}
	return nil
}

func absOr(flag, current string) (string, error) {
	if flag == "" {
		return current, nil
	}
	return filepath.Abs(flag)
}

// environment returns the execution environment of file, or the default
// one when file is empty.
func (a *app) environment(file string) *resolver.ExecutionEnvironment {
	if file == "" {
		return a.project.DefaultEnvironment()
	}
	return a.project.EnvironmentFor(file)
}

// emit writes msg in the selected format, or calls text for text output.
func (a *app) emit(msg *structpb.Struct, text func(w io.Writer)) error {
	if a.cfg.format == formatText {
		text(a.cfg.stdout)
		return nil
	}
	return protobuf.WriteTo(protobuf.Format(a.cfg.format), msg, a.cfg.stdout)
}

func (a *app) dump(v any) {
	if a.cfg.debug {
		spew.Fdump(a.cfg.stderr, v)
	}
}

func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return filepath.Abs(p)
}
