package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tesh254/axmd/internal/axtree"
	"github.com/tesh254/axmd/internal/markdown"
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Renders an accessibility tree JSON file as Markdown",
	Long: `Renders a Chrome accessibility tree ({"nodes": [...]}, as returned by
Accessibility.getFullAXTree) as Markdown. Reads stdin when the file is "-" or
omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, _ := cmd.Flags().GetBool("stats")
		output, _ := cmd.Flags().GetString("output")

		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			in = f
		}

		md, err := renderTree(in)
		if err != nil {
			return err
		}
		if err := writeOutput(cmd.OutOrStdout(), output, md); err != nil {
			return err
		}
		if stats {
			printSummary(cmd.ErrOrStderr(), markdown.Summarize(md))
		}
		return nil
	},
}

func renderTree(r io.Reader) (string, error) {
	tree, err := axtree.DecodeReader(r)
	if err != nil {
		return "", err
	}
	return markdown.Render(tree), nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Bool("stats", false, "Print an outline of the rendered Markdown to stderr")
	renderCmd.Flags().StringP("output", "o", "", "Write Markdown to this file instead of stdout")
}
