package main

import (
	"context"

	"a11yowl/cmd/a11yowl/scan"
	"a11yowl/cmd/a11yowl/server"
	"a11yowl/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

func Execute() error {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "a11yowl",
		Short:   "Accessibility and AI readiness scanner front end",
		Long:    `A11y Owl serves the scanner web site and talks to the scanning backend. It can also run a scan from the terminal.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			} else {
				logger.SetLevel(logrus.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Directory holding a11yowl.yaml")

	// Add commands
	rootCmd.AddCommand(server.NewServerCommand(version))
	rootCmd.AddCommand(scan.NewScanCommand())
	rootCmd.AddCommand(scan.NewStatusCommand())
	return rootCmd.ExecuteContext(context.Background())
}
