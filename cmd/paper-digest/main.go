// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-digest CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/fetch"
	"github.com/pdiddy/paper-digest/internal/job"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "paper-digest/0.1"

// rootCmd is the base command for the paper-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-digest",
	Short: "Search academic papers by topic and summarize them",
	Long: `paper-digest searches a paper listing site for a topic, fetches every
paper page it finds, and produces a short extractive summary of each one.

Run "serve" to expose the pipeline as an asynchronous HTTP job API, or
"digest" to run a single topic synchronously from the command line.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-digest.yaml or ~/.config/paper-digest/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-digest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-digest"))
		}
	}

	viper.SetEnvPrefix("PAPER_DIGEST")
	viper.AutomaticEnv()

	viper.SetDefault("search.base_url", fetch.DefaultBaseURL)
	viper.SetDefault("search.timeout", 15*time.Second)
	viper.SetDefault("search.user_agent", defaultUserAgent)
	viper.SetDefault("search.max_results", 0)
	viper.SetDefault("summary.sentences", 3)
	viper.SetDefault("summary.language", "english")
	viper.SetDefault("store.backend", string(types.StoreMemory))
	viper.SetDefault("store.path", "paper-digest.db")
	viper.SetDefault("store.redis_url", "redis://localhost:6379/0")
	viper.SetDefault("store.ttl", job.DefaultTTL)
	viper.SetDefault("pipeline.concurrency", 4)
	viper.SetDefault("pipeline.item_timeout", 20*time.Second)
	viper.SetDefault("server.addr", ":8080")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the typed configuration from viper.
func loadConfig() types.Config {
	return types.Config{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			BaseURL:    viper.GetString("search.base_url"),
			MaxResults: viper.GetInt("search.max_results"),
		},
		Summary: types.SummaryConfig{
			Sentences:         viper.GetInt("summary.sentences"),
			ClusterDistance:   viper.GetInt("summary.cluster_distance"),
			MinFrequency:      viper.GetInt("summary.min_frequency"),
			MaxFrequencyRatio: viper.GetFloat64("summary.max_frequency_ratio"),
			Language:          viper.GetString("summary.language"),
		},
		Store: types.StoreConfig{
			Backend:  types.StoreBackend(viper.GetString("store.backend")),
			Path:     viper.GetString("store.path"),
			RedisURL: viper.GetString("store.redis_url"),
			TTL:      viper.GetDuration("store.ttl"),
		},
		Pipeline: types.PipelineConfig{
			Concurrency: viper.GetInt("pipeline.concurrency"),
			ItemTimeout: viper.GetDuration("pipeline.item_timeout"),
		},
		Server: types.ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
	}
}

// openStore builds the job store named by the configuration.
func openStore(cfg types.StoreConfig) (job.Store, error) {
	switch cfg.Backend {
	case types.StoreMemory, "":
		return job.NewMemoryStore(cfg.TTL), nil
	case types.StoreSQLite:
		return job.NewSQLiteStore(cfg.Path, cfg.TTL)
	case types.StoreRedis:
		return job.NewRedisStore(cfg.RedisURL, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// newHTTPClient builds the shared client for listing and page fetches.
func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
