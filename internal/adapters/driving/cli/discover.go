package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	configfile "github.com/patternscout/patternscout-cli/internal/adapters/driven/config/file"
	"github.com/patternscout/patternscout-cli/internal/adapters/driven/store"
	gitconn "github.com/patternscout/patternscout-cli/internal/connectors/git"
	ghconn "github.com/patternscout/patternscout-cli/internal/connectors/github"
	"github.com/patternscout/patternscout-cli/internal/core/domain"
	"github.com/patternscout/patternscout-cli/internal/core/services"
)

// tokenEnvVar supplies the optional GitHub token. Absence only
// lowers throughput, never correctness.
const tokenEnvVar = "GITHUB_TOKEN"

var (
	discoverOrgs     string
	discoverTopK     int
	discoverLanguage string
	discoverRefresh  bool
	discoverSkip     bool
	discoverJSON     bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover [pattern]",
	Short: "Search, rank and clone repositories using a pattern",
	Long: `Crawls the code-search API for the pattern across the given
organizations, ranks the deduplicated repositories by a composite of
popularity, relevance and recency, and shallow-clones the top-K.

A run is cached per (pattern, orgs, language, k); within the TTL a
repeat invocation is served from disk with zero network calls.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverOrgs, "orgs", "o", "", "comma-separated organizations to search (required)")
	discoverCmd.Flags().IntVarP(&discoverTopK, "top", "k", 10, "number of repositories to clone (3-50)")
	discoverCmd.Flags().StringVarP(&discoverLanguage, "language", "l", "", "restrict search to a language")
	discoverCmd.Flags().BoolVar(&discoverRefresh, "refresh", false, "ignore cached results and re-run")
	discoverCmd.Flags().BoolVar(&discoverSkip, "skip-clone", false, "report disk state instead of cloning")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "output the manifest as JSON")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	settings, err := configfile.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	req := domain.DiscoveryRequest{
		Pattern:      args[0],
		Orgs:         splitOrgs(discoverOrgs),
		TopK:         discoverTopK,
		Language:     discoverLanguage,
		ForceRefresh: discoverRefresh,
		SkipClone:    discoverSkip,
	}

	stores, err := store.NewFactory(settings.ResultsDir)
	if err != nil {
		return fmt.Errorf("open results dir: %w", err)
	}

	ctx := cmd.Context()
	client := ghconn.NewClient(ctx, os.Getenv(tokenEnvVar))
	crawler := ghconn.NewCrawler(client, domain.DefaultRetryPolicy()).
		WithPageDelay(settings.PageDelayDuration())

	pipeline := services.NewPipeline(crawler, gitconn.NewCloner(), stores, services.PipelineOptions{
		Weights:      settings.Weights,
		CacheTTL:     settings.CacheTTLDuration(),
		CloneWorkers: settings.CloneWorkers,
		CloneTimeout: settings.CloneTimeoutDuration(),
	})

	report, err := pipeline.Discover(ctx, req)
	if err != nil {
		return err
	}

	if discoverJSON {
		return outputReportJSON(cmd, report)
	}
	return outputReportTable(cmd, report)
}

// splitOrgs parses the comma-separated org list, dropping empties.
func splitOrgs(s string) []string {
	var orgs []string
	for _, org := range strings.Split(s, ",") {
		org = strings.TrimSpace(org)
		if org != "" {
			orgs = append(orgs, org)
		}
	}
	return orgs
}

func outputReportJSON(cmd *cobra.Command, report *domain.Report) error {
	data, err := json.MarshalIndent(report.Entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReportTable(cmd *cobra.Command, report *domain.Report) error {
	if report.FromCache {
		cmd.Printf("Cached results (query key %s):\n\n", report.QueryKey)
	} else {
		cmd.Printf("Results (query key %s):\n\n", report.QueryKey)
	}

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for i, e := range report.Entries {
		status := string(e.CloneStatus)
		switch e.CloneStatus {
		case domain.CloneSuccess:
			status = ok(status)
		case domain.CloneFailed:
			status = bad(status)
		default:
			status = dim(status)
		}

		cmd.Printf("  [%d] %s (%.3f)\n", i+1, e.FullName, e.CompositeScore)
		cmd.Printf("      stars=%d matches=%d language=%s clone=%s\n",
			e.Stars, e.MatchCount, e.Language, status)
		if e.CloneStatus == domain.CloneSuccess {
			cmd.Printf("      %s\n", dim(e.LocalPath))
		}
	}

	if len(report.Warnings) > 0 {
		cmd.Printf("\n%d warning(s):\n", len(report.Warnings))
		for _, w := range report.Warnings {
			cmd.Printf("  - %s\n", w)
		}
	}

	cmd.Printf("\nManifest and log: %s\n", report.ResultsDir)
	return nil
}
