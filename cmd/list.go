package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists stored pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		st := openStorage()
		defer st.Close()

		pages, total, err := newAPI(st, false).ListPages(limit, offset)
		if err != nil {
			return err
		}

		if total == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No pages found.")
			return nil
		}

		printPages(cmd.OutOrStdout(), pages)
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d pages\n", len(pages), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntP("limit", "n", 50, "Maximum number of pages to list (0 for all)")
	listCmd.Flags().Int("offset", 0, "Number of pages to skip")
}
