// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/internal/fetch"
	"github.com/pdiddy/paper-digest/internal/logging"
	"github.com/pdiddy/paper-digest/internal/pipeline"
	"github.com/pdiddy/paper-digest/internal/summarize"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var digestCmd = &cobra.Command{
	Use:   "digest <topic>",
	Short: "Search a topic and summarize the papers found, synchronously",
	Long: `Digest runs the full pipeline for one topic in the foreground: fetch the
listing, fetch every paper page, and print a short extractive summary per
paper. Papers that cannot be fetched are reported inline without aborting
the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().Int("max-results", 0, "cap the number of papers processed (0 = no cap)")
	digestCmd.Flags().Int("sentences", 0, "sentences per summary (default 3)")
	digestCmd.Flags().Bool("json", false, "output results as JSON")
	digestCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		return fmt.Errorf("provide a non-empty topic")
	}

	cfg := loadConfig()
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.Search.MaxResults = n
	}
	if n, _ := cmd.Flags().GetInt("sentences"); n > 0 {
		cfg.Summary.Sentences = n
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	log := logging.New(logLevel)

	client := newHTTPClient(cfg.Search.HTTPConfig)
	runner := pipeline.NewRunner(
		fetch.NewArxivLister(client, cfg.Search),
		fetch.NewHTTPPageFetcher(client, cfg.Search.UserAgent),
		summarize.New(cfg.Summary),
		cfg.Pipeline,
		log,
	)

	// Run in the foreground, keeping only the latest snapshot.
	var final types.Job
	runner.Execute(cmd.Context(), types.Job{ID: "cli", Topic: topic}, func(j types.Job) {
		final = j
	})

	if final.State == types.JobFailed {
		return fmt.Errorf("digest failed: %s", final.Error)
	}
	if final.State == types.JobCancelled {
		return fmt.Errorf("digest cancelled")
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	switch {
	case asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(final.Papers)
	case asYAML:
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(final.Papers)
	default:
		printPapers(final.Papers)
		return nil
	}
}

func printPapers(papers []types.PaperResult) {
	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return
	}
	for i, p := range papers {
		fmt.Printf("%d. %s\n   %s\n   %s\n\n", i+1, p.Title, p.Link, p.Summary)
	}
}
