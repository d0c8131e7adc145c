package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricofy/chunked-translator/internal/backend"
	"github.com/pricofy/chunked-translator/internal/router"
)

func (c *cli) languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages of the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.load()
			if err != nil {
				return err
			}

			r := router.New(backend.SchemeFor(cfg.Backend.Kind))
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, lang := range r.SupportedLanguages() {
				code, err := r.Code(lang)
				if err != nil {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", lang, router.Name(lang), code)
			}
			return tw.Flush()
		},
	}
}
