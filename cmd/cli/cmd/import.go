// Package cmd - import command
package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tfadopt/clouds/aws"
	"tfadopt/core/importer"
	"tfadopt/core/provider"
	"tfadopt/internal/config"
	"tfadopt/internal/errors"
)

var (
	resourceList string
	excludeList  string
	filterExprs  []string
	outputRoot   string
	pathPattern  string
	compact      bool
	jsonOut      bool
	noSort       bool
	regionFlag   string
	profileFlag  string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <provider>",
	Short: "Discover resources and generate configuration plus state",
	Long: `Discover existing resources of a cloud provider and write
Terraform configuration and a matching terraform.tfstate per service.

Each service is written into its own directory derived from the path
pattern; services that fail are skipped unless --verbose is set, in
which case the first failure aborts the run.

Examples:
  tfadopt import aws --resources route53,s3
  tfadopt import aws --resources '*' --filter 'Type=ec2;Name=instance_type;Value=t3.micro'
  tfadopt import aws --resources ec2 --compact --json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&resourceList, "resources", "r", "*", "comma-separated service list, or * for all")
	importCmd.Flags().StringVarP(&excludeList, "excludes", "x", "", "comma-separated services to skip")
	importCmd.Flags().StringSliceVarP(&filterExprs, "filter", "f", nil, "resource filter expression (repeatable)")
	importCmd.Flags().StringVarP(&outputRoot, "output", "o", "", "output root directory")
	importCmd.Flags().StringVar(&pathPattern, "path-pattern", "", "output layout with {output}/{provider}/{service} placeholders")
	importCmd.Flags().BoolVarP(&compact, "compact", "c", false, "write all resource types into one resources file")
	importCmd.Flags().BoolVar(&jsonOut, "json", false, "write JSON configuration syntax instead of HCL")
	importCmd.Flags().BoolVar(&noSort, "no-sort", false, "preserve discovery order instead of sorting by type and name")
	importCmd.Flags().StringVar(&regionFlag, "region", "", "provider region override")
	importCmd.Flags().StringVar(&profileFlag, "profile", "", "credentials profile override")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	p, err := buildProvider(args[0], cfg)
	if err != nil {
		return err
	}

	opts := importer.Options{
		Services:    splitCSV(resourceList),
		Excludes:    splitCSV(excludeList),
		Filters:     filterExprs,
		Output:      cfg.Output.Root,
		PathPattern: cfg.Output.PathPattern,
		Compact:     compact || cfg.Output.Compact,
		JSON:        jsonOut || cfg.Output.JSON,
		NoSort:      noSort || cfg.Output.NoSort,
		Strict:      verbose,
	}
	if outputRoot != "" {
		opts.Output = outputRoot
	}
	if pathPattern != "" {
		opts.PathPattern = pathPattern
	}

	return importer.New(p, opts).Run(context.Background())
}

// buildProvider returns the requested provider, constructing it from
// configuration plus command-line overrides on first use and
// registering it so later lookups reuse the instance.
func buildProvider(name string, cfg *config.Config) (provider.Provider, error) {
	if p, ok := provider.GetDefault().Get(name); ok {
		return p, nil
	}

	switch name {
	case "aws":
		awsCfg := aws.Config{
			Region:       cfg.AWS.Region,
			Profile:      cfg.AWS.Profile,
			AccessKey:    cfg.AWS.AccessKey,
			SecretKey:    cfg.AWS.SecretKey,
			SessionToken: cfg.AWS.SessionToken,
			Endpoint:     cfg.AWS.Endpoint,
		}
		if regionFlag != "" {
			awsCfg.Region = regionFlag
		}
		if profileFlag != "" {
			awsCfg.Profile = profileFlag
		}
		p, err := aws.New(awsCfg)
		if err != nil {
			return nil, err
		}
		if err := provider.Register(p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, errors.NotSupported("provider", name)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
