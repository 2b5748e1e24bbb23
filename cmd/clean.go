package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Deletes all stored pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			reader := bufio.NewReader(cmd.InOrStdin())
			fmt.Fprintln(cmd.OutOrStdout(), color.RedString("WARNING: This will delete all stored pages and is not recoverable."))
			fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to continue? (yes/no): ")

			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			if strings.TrimSpace(strings.ToLower(response)) != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Clean operation cancelled.")
				return nil
			}
		}

		st := openStorage()
		defer st.Close()

		if err := st.Clean(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Database cleaned successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
