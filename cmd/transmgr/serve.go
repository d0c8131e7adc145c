package main

import (
	"github.com/spf13/cobra"

	"github.com/pricofy/chunked-translator/internal/httpapi"
)

func (c *cli) serveCmd() *cobra.Command {
	var origins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translator over HTTP",
		Long: `Serve POST /v1/translate, GET /v1/languages and GET /health.

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, cfg, log, err := c.newOrchestrator(cmd.Context())
			if err != nil {
				return err
			}
			srv := httpapi.New(o, o.Router(), log, httpapi.WithAllowedOrigins(origins...))
			return srv.Run(cmd.Context(), cfg.HTTP.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins (default any)")
	_ = c.v.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
