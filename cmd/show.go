package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tesh254/axmd/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show [url]",
	Short: "Prints a stored page's Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStorage()
		defer st.Close()

		page, err := newAPI(st, false).GetPage(args[0])
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no stored page for %s", args[0])
		}
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		return writeOutput(cmd.OutOrStdout(), output, page.Markdown)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("output", "o", "", "Write Markdown to this file instead of stdout")
}
