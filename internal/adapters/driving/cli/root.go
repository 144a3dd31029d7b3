// Package cli wires the cobra command tree for PatternScout. It owns
// flag parsing and output formatting; the core pipeline only ever
// sees a validated domain.DiscoveryRequest.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/patternscout/patternscout-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "patternscout",
	Short: "Discover, rank and clone repositories using a design pattern",
	Long: `PatternScout queries the GitHub code-search API for usages of a
design pattern across organizations, deduplicates and ranks the
matching repositories, and shallow-clones the top-K set for local
analysis. Results are cached on disk with a TTL so repeated runs are
free.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// ExecuteContext runs the root command with a cancellable context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
