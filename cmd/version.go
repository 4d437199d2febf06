// =============================================================================
// SmartBill - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   smartbill version
//
// OUTPUT:
//   SmartBill Pro
//   Version:    5.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/smartbill/internal/session"
)

// versionCmd represents the 'version' command.
// Version and build date live in the session package so that the About
// banner and this command agree; set them with ldflags.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, and Go runtime version.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, session.ProductName)
		fmt.Fprintf(out, "Version:    %s\n", session.Version)
		fmt.Fprintf(out, "Build Date: %s\n", session.BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
