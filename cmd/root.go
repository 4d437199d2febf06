// =============================================================================
// SmartBill - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (smartbill)
//   ├── sessionCmd (smartbill session)
//   ├── renderCmd  (smartbill render)
//   └── versionCmd (smartbill version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration once, before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/smartbill/internal/config"
	"github.com/ginjaninja78/smartbill/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// Built-in defaults are used when it is empty.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the process-wide configuration, loaded in PersistentPreRunE
// and never modified afterwards.
var appConfig *config.Config

// appLog is the application logger.
var appLog logger.Logger = logger.Nop()

// logCloser releases the log file, if any.
var logCloser io.Closer

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "smartbill",
	Short: "SmartBill - build, preview, export and print customer invoices",
	Long: `SmartBill is an invoicing tool for small shops. Enter line items, apply
a discount and tax rate, preview the receipt, then export it as PDF, XLSX or
XML, or send it to a printer.

Example Usage:
  smartbill session                          # Interactive bill entry
  smartbill render --bill bill.yaml --pdf out  # Render a bill file
  smartbill --config shop.yaml session       # Use a custom configuration file`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (built-in defaults when omitted)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initApp loads the configuration and the logger.
func initApp() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, closer, err := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		File:    cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	appConfig = cfg
	appLog = log
	logCloser = closer

	if cfgFile != "" {
		appLog.Debug("Using config file: %s", cfgFile)
	}
	return nil
}
