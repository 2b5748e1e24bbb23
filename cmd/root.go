package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/axmd/internal/api"
	"github.com/tesh254/axmd/internal/cleanup"
	"github.com/tesh254/axmd/internal/scraper"
	"github.com/tesh254/axmd/internal/storage"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "axmd",
	Short: "axmd renders web pages as Markdown from the browser's accessibility tree.",
	Long: `axmd loads a page in Chrome, reads its accessibility tree and renders it as
Markdown for LLM ingestion and other text pipelines. Rendered pages can be
stored in a local SQLite database and served over MCP or HTTP.`,
	Version:       Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defaults := scraper.DefaultConfig()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.axmd/config.yaml)")
	rootCmd.PersistentFlags().String("db", filepath.Join(home, ".axmd", "axmd.db"), "Path to the page database")
	rootCmd.PersistentFlags().String("cleanup-url", "", "Text cleanup service URL (empty disables cleanup)")
	rootCmd.PersistentFlags().String("user-agent", defaults.UserAgent, "User-Agent for fetches and the browser")
	rootCmd.PersistentFlags().Duration("timeout", defaults.Timeout, "Timeout for a single fetch or capture")
	rootCmd.PersistentFlags().String("wait-selector", defaults.WaitSelector, "CSS selector to wait for before reading the page")

	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("cleanup-url", rootCmd.PersistentFlags().Lookup("cleanup-url"))
	viper.BindPFlag("user-agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("wait-selector", rootCmd.PersistentFlags().Lookup("wait-selector"))
	viper.SetDefault("headless", true)
}

func initConfig() {
	viper.SetEnvPrefix("AXMD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		configPath := filepath.Join(home, ".axmd")
		viper.AddConfigPath(configPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if err := os.MkdirAll(configPath, os.ModePerm); err != nil {
			fmt.Println("Error creating config directory:", err)
			os.Exit(1)
		}
		configFile := filepath.Join(configPath, "config.yaml")
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := viper.SafeWriteConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileAlreadyExistsError); !ok {
					fmt.Println("Error writing config file:", err)
					os.Exit(1)
				}
			}
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[WARN] could not read config: %v", err)
		}
	}
}

// scraperConfig builds the fetch configuration from flags, env and file.
func scraperConfig(verbose bool) *scraper.Config {
	cfg := scraper.DefaultConfig()
	if ua := viper.GetString("user-agent"); ua != "" {
		cfg.UserAgent = ua
	}
	if d := viper.GetDuration("timeout"); d > 0 {
		cfg.Timeout = d
	}
	if sel := viper.GetString("wait-selector"); sel != "" {
		cfg.WaitSelector = sel
	}
	cfg.Headless = viper.GetBool("headless")
	cfg.Verbose = verbose
	return cfg
}

func openStorage() *storage.Storage {
	st, err := storage.NewStorage(viper.GetString("db"))
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	return st
}

// newAPI wires the API; st may be nil for commands that never store.
func newAPI(st *storage.Storage, verbose bool) *api.API {
	return api.NewAPI(st, cleanup.NewClient(viper.GetString("cleanup-url")), scraperConfig(verbose))
}
