package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/calradia/rosterkit/pkg/api"
)

var serveFlags struct {
	bind    string
	port    int
	apiKey  string
	dataDir string
}

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the rosterkit HTTP API. Clients upload a profiles.dat into a
session, edit it through the character endpoints, and download the result.
Sessions are held in memory with snapshot backups spilled to disk, and are
evicted after two hours of inactivity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := cfg.Server
		if cmd.Flags().Changed("bind") {
			server.Bind = serveFlags.bind
		}
		if cmd.Flags().Changed("port") {
			server.Port = serveFlags.port
		}
		if cmd.Flags().Changed("api-key") {
			server.APIKey = serveFlags.apiKey
		}
		if cmd.Flags().Changed("data-dir") {
			server.DataDir = serveFlags.dataDir
		}

		return api.StartServer(context.Background(), api.ServerConfig{
			Bind:    server.Bind,
			Port:    server.Port,
			APIKey:  server.APIKey,
			DataDir: server.DataDir,
		}, log)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.bind, "bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().IntVar(&serveFlags.port, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveFlags.apiKey, "api-key", "", "Require this X-API-Key header on /api routes")
	serveCmd.Flags().StringVar(&serveFlags.dataDir, "data-dir", "", "Directory for the session snapshot store")
	rootCmd.AddCommand(serveCmd)
}
