package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pywand/pywand/internal/pyenv"
	"github.com/pywand/pywand/internal/scanner"
)

var (
	// Version information - typically set via ldflags at build time
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of PyWand",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("PyWand %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		fmt.Printf("Default Python: %s\n", scanner.DefaultPythonVersion)

		if versions := pyenv.HostSupportedPythonVersions(); len(versions) > 0 {
			fmt.Printf("Provisionable on %s/%s: %s\n",
				runtime.GOOS, runtime.GOARCH, strings.Join(versions, ", "))
		}

		if uv, err := pyenv.NewUvManager(); err == nil {
			fmt.Printf("uv: %s\n", uv.Path())
		} else {
			fmt.Println("uv: not found")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
