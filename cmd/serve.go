package cmd

import (
	"github.com/emrgen/webmention/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var grpcPort string
	var httpPort string

	command := &cobra.Command{
		Use:   "serve",
		Short: "run the webmention endpoint and workers",
		Run: func(cmd *cobra.Command, args []string) {
			server.NewServer(grpcPort, httpPort).Start()
		},
	}

	command.Flags().StringVar(&grpcPort, "grpc-port", "4000", "grpc health port")
	command.Flags().StringVar(&httpPort, "http-port", "4001", "webmention endpoint port")

	return command
}
