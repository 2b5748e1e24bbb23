package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/axmd/internal/core"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the MCP server (stdio) or the HTTP API with MCP mounted at /mcp",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpAddress := viper.GetString("http-address")
		transport := viper.GetString("transport")

		st := openStorage()
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf("[INFO] Starting axmd server (transport: %s)", transport)
		return core.New(newAPI(st, false)).StartServer(ctx, transport, httpAddress)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().String("http-address", "localhost:9014", "HTTP address to listen on")
	startCmd.Flags().String("transport", "stdio", "Transport type (stdio or http)")
	viper.BindPFlag("http-address", startCmd.Flags().Lookup("http-address"))
	viper.BindPFlag("transport", startCmd.Flags().Lookup("transport"))
}
