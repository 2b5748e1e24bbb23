package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [url-prefix]",
	Short: "Deletes stored pages whose URL starts with the prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStorage()
		defer st.Close()

		n, err := newAPI(st, false).DeletePages(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete pages: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d pages matching '%s'.\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
