package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/axmd/internal/api"
	"github.com/tesh254/axmd/internal/markdown"
	"github.com/tesh254/axmd/internal/storage"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Renders a web page as Markdown from its accessibility tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		verbose, _ := cmd.Flags().GetBool("verbose")
		htmlOnly, _ := cmd.Flags().GetBool("html-only")
		headful, _ := cmd.Flags().GetBool("headful")
		store, _ := cmd.Flags().GetBool("store")
		clean, _ := cmd.Flags().GetBool("cleanup")
		output, _ := cmd.Flags().GetString("output")
		dumpAXTree, _ := cmd.Flags().GetString("dump-axtree")
		stats, _ := cmd.Flags().GetBool("stats")

		if headful {
			viper.Set("headless", false)
		}

		var st *storage.Storage
		if store {
			st = openStorage()
			defer st.Close()
		}
		a := newAPI(st, verbose)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		res, err := a.CapturePage(ctx, url, api.CaptureOptions{
			HTMLOnly: htmlOnly,
			Cleanup:  clean,
			Store:    store,
		})
		if err != nil {
			return err
		}

		if dumpAXTree != "" && res.AXTree != nil {
			if err := os.WriteFile(dumpAXTree, res.AXTree, 0o644); err != nil {
				return fmt.Errorf("failed to write accessibility tree: %w", err)
			}
		}

		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%s, %d bytes)\n",
				color.GreenString("✔"), res.Page.URL, res.Page.Source, len(res.Page.Markdown))
			if store {
				fmt.Fprintf(cmd.ErrOrStderr(), "  stored in %s\n", viper.GetString("db"))
			}
		}

		if err := writeOutput(cmd.OutOrStdout(), output, res.Page.Markdown); err != nil {
			return err
		}
		if stats {
			printSummary(cmd.ErrOrStderr(), markdown.Summarize(res.Page.Markdown))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	fetchCmd.Flags().Bool("html-only", false, "Skip the browser and convert the served HTML")
	fetchCmd.Flags().Bool("headful", false, "Show the browser window")
	fetchCmd.Flags().Bool("store", false, "Store the rendered page in the database")
	fetchCmd.Flags().Bool("cleanup", false, "Send the Markdown through the cleanup service")
	fetchCmd.Flags().StringP("output", "o", "", "Write Markdown to this file instead of stdout")
	fetchCmd.Flags().String("dump-axtree", "", "Write the captured accessibility tree JSON to this file")
	fetchCmd.Flags().Bool("stats", false, "Print an outline of the rendered Markdown to stderr")
}
