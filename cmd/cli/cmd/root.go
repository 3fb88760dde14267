// Package cmd provides the CLI commands for tfadopt.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tfadopt/internal/config"
	"tfadopt/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tfadopt",
	Short: "Adopt existing cloud infrastructure as Terraform configuration",
	Long: `tfadopt discovers existing cloud resources through read-only
inspection APIs and generates matching Terraform configuration plus a
state snapshot, so infrastructure can be brought under Terraform without
recreating it.

Examples:
  tfadopt import aws --resources route53,s3
  tfadopt import aws --resources '*' --excludes iam --output ./generated
  tfadopt import aws --resources ec2 --filter 'ec2=i-0123:i-0456' --json`,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tfadopt.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output and strict failure mode")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tfadopt version 0.1.0")
	},
}
