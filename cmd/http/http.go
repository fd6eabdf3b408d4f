package http

import "github.com/spf13/cobra"

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "HTTP API commands",
		Long:  "Run the dashboard and public booking API. Booking notifications run in the same process when nats.url is set.",
	}

	cmd.AddCommand(NewStartCommand())

	return cmd
}
