package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zenops/zen-ops-console/internal/repository"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Ping the backend API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			health, err := repository.NewHealthRepository(a.api).Ping(cmd.Context())
			if err != nil {
				return err
			}
			return render(opts.stdout, a.out, health, func(tw *tabwriter.Writer) {
				writeRow(tw, "BACKEND", a.cfg.API.BaseURL)
				writeRow(tw, "STATUS", health.Status)
			})
		},
	}
}
