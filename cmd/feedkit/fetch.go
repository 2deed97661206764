package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newFetchCmd(configPath func() string) *cobra.Command {
	var since string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch all enabled sources, store new content and fire notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sinceT *time.Time
			if since != "" {
				d, err := parseSince(since)
				if err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
				t := time.Now().Add(-d)
				sinceT = &t
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, configPath(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			reg, err := a.syncSources(ctx)
			if err != nil {
				return err
			}
			ing, err := a.ingestor(reg)
			if err != nil {
				return err
			}
			report, err := ing.Run(ctx, sinceT)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, sr := range report.PerSource {
				status := "ok"
				if sr.Err != nil {
					status = sr.Err.Error()
				}
				fmt.Fprintf(out, "%-20s %4d  %s\n", sr.SourceID, sr.Items, status)
			}
			fmt.Fprintf(out, "fetched %d, stored %d, new %d, notified %d\n",
				report.Fetched, report.Stored, report.New, report.Notified)
			return nil
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "only keep items newer than this (e.g. 24h, 7d)")
	return cmd
}
