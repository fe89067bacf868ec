package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-sharp/color"
	"github.com/spf13/cobra"

	"github.com/stackb/pyimports/pkg/protobuf"
	"github.com/stackb/pyimports/pkg/resolver"
)

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cfg := &config{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           executableName,
		Short:         "Resolve Python imports to files and files to module names",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	cfg.register(root)

	root.AddCommand(
		newResolveCommand(cfg),
		newModuleNameCommand(cfg),
		newRootsCommand(cfg),
		newStdlibCommand(cfg),
		newStdlibExcludeCommand(cfg),
	)
	return root
}

func newResolveCommand(cfg *config) *cobra.Command {
	var symbols []string
	cmd := &cobra.Command{
		Use:   "resolve SOURCE_FILE MODULE...",
		Short: "Resolve modules as imported from SOURCE_FILE",
		Long:  "Resolve each MODULE (\"os.path\", \"..sibling\") as an import statement in SOURCE_FILE would. Use --symbols for the names of a from-import.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			sourceFile, err := absPath(args[0])
			if err != nil {
				return err
			}
			env := a.environment(sourceFile)

			var missing int
			for _, module := range args[1:] {
				desc := resolver.ParseModuleDescriptor(module, symbols...)
				result := a.resolver.ResolveImport(sourceFile, env, desc)
				a.dump(result)
				if !result.IsImportFound {
					missing++
				}
				msg, err := protobuf.ImportResultStruct(result)
				if err != nil {
					return err
				}
				if err := a.emit(msg, func(w io.Writer) { writeImportResultText(w, result) }); err != nil {
					return err
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d imports not found", missing, len(args)-1)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "imported symbols of a from-import; \"*\" for a wildcard")
	return cmd
}

func newModuleNameCommand(cfg *config) *cobra.Command {
	var allowInvalid, detectPyTyped bool
	cmd := &cobra.Command{
		Use:   "modulename FILE...",
		Short: "Print the shortest module name each FILE is importable as",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			for _, arg := range args {
				file, err := absPath(arg)
				if err != nil {
					return err
				}
				info := a.resolver.ModuleNameForFile(file, a.environment(file), allowInvalid, detectPyTyped)
				a.dump(info)
				msg, err := protobuf.ModuleNameStruct(file, info)
				if err != nil {
					return err
				}
				if err := a.emit(msg, func(w io.Writer) { writeModuleNameText(w, file, info) }); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&allowInvalid, "allow_invalid", false, "return names with non-identifier components")
	cmd.Flags().BoolVar(&detectPyTyped, "detect_py_typed", false, "report py.typed for third-party files")
	return cmd
}

func newRootsCommand(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "roots [FILE]",
		Short: "List the import roots searched for FILE, in precedence order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, env, err := appWithEnvironment(cfg, args)
			if err != nil {
				return err
			}
			return a.emitList("roots", a.resolver.ImportRoots(env))
		},
	}
}

func newStdlibCommand(cfg *config) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "stdlib [PREFIX]",
		Short: "List the standard library modules available to the environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, env, err := appWithEnvironment(cfg, []string{file})
			if err != nil {
				return err
			}
			var prefix string
			if len(args) > 0 {
				prefix = args[0]
			}
			return a.emitList("modules", a.resolver.StdlibModules(prefix, env))
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "pick the execution environment of this file")
	return cmd
}

func newStdlibExcludeCommand(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "stdlib-exclude [FILE]",
		Short: "List stdlib stub paths unavailable to FILE's python version and platform",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, env, err := appWithEnvironment(cfg, args)
			if err != nil {
				return err
			}
			return a.emitList("excludes", a.resolver.StdlibExcludeList(env))
		},
	}
}

func appWithEnvironment(cfg *config, args []string) (*app, *resolver.ExecutionEnvironment, error) {
	a, err := newApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	var file string
	if len(args) > 0 {
		if file, err = absPath(args[0]); err != nil {
			return nil, nil, err
		}
	}
	return a, a.environment(file), nil
}

func (a *app) emitList(key string, values []string) error {
	a.dump(values)
	msg, err := protobuf.StringListStruct(key, values)
	if err != nil {
		return err
	}
	return a.emit(msg, func(w io.Writer) {
		for _, v := range values {
			fmt.Fprintln(w, v)
		}
	})
}

func writeImportResultText(w io.Writer, result *resolver.ImportResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if result.IsImportFound {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", result.ImportName, color.GreenString("found"), result.ImportType, result.ResolvedPath())
	} else {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", result.ImportName, color.RedString("not found"), result.ImportType)
	}
	tw.Flush()

	var notes []string
	if result.IsStubFile {
		notes = append(notes, "stub")
	}
	if result.IsNamespacePackage {
		notes = append(notes, "namespace package")
	}
	if result.IsStubPackage {
		notes = append(notes, "stub package")
	}
	if result.IsNativeLib {
		notes = append(notes, "native")
	}
	if len(notes) > 0 {
		fmt.Fprintf(w, "  %s\n", color.BlueString(strings.Join(notes, ", ")))
	}
	if result.NonStubImportResult != nil && result.NonStubImportResult.IsImportFound {
		fmt.Fprintf(w, "  non-stub: %s\n", result.NonStubImportResult.ResolvedPath())
	}
	for _, name := range sortedImplicitImports(result.FilteredImplicitImports) {
		fmt.Fprintf(w, "  implicit: %s\n", name)
	}
	if !result.IsImportFound {
		for _, line := range result.ImportFailureInfo {
			fmt.Fprintf(w, "  %s\n", color.YellowString(line))
		}
	}
}

func writeModuleNameText(w io.Writer, file string, info resolver.ModuleNameInfo) {
	name := info.ModuleName
	if name == "" {
		name = color.RedString("<none>")
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", file, name, info.ImportType)
}

func sortedImplicitImports(imports map[string]*resolver.ImplicitImport) []string {
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
