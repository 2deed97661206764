package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/feedkit/engine"
)

func newFeedCmd(configPath func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "feed [ALGORITHM_ID]",
		Short: "Generate a feed from stored content with a saved or ad-hoc algorithm",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (file != "") {
				return errors.New("specify exactly one of ALGORITHM_ID or --file")
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, configPath(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := a.feedService()
			var res *engine.Result
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read algorithm: %w", err)
				}
				res, err = svc.GenerateYAML(ctx, data)
				if err != nil {
					return err
				}
			} else {
				res, err = svc.Generate(ctx, args[0])
				if err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "algorithm YAML file to run without saving it")
	return cmd
}
