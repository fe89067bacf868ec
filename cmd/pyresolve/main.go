// pyresolve resolves Python imports the way a type checker does and maps
// files back to module names.
package main

import (
	"fmt"
	"os"

	"github.com/go-sharp/color"
)

const executableName = "pyresolve"

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", executableName, color.RedString(err.Error()))
		os.Exit(1)
	}
}
