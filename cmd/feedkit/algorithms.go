package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/feedkit/algorithm"
)

func newAlgorithmsCmd(configPath func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "algorithms",
		Aliases: []string{"algo"},
		Short:   "Manage saved algorithms",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), configPath(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			recs, err := a.algorithms.All(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tAUTHOR\tTAGS")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Author, strings.Join(r.Tags, ","))
			}
			return tw.Flush()
		},
	}

	var author string
	add := &cobra.Command{
		Use:   "add FILE",
		Short: "Validate and save an algorithm file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := algorithm.LoadFile(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), configPath(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.algorithms.Create(cmd.Context(), cfg, author)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	add.Flags().StringVar(&author, "author", "", "author recorded with the algorithm")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a saved algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), configPath(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.algorithms.Delete(cmd.Context(), args[0])
		},
	}

	install := &cobra.Command{
		Use:   "install PRESET",
		Short: "Save a marketplace preset as a new algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := algorithm.FindPreset(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), configPath(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.algorithms.Create(cmd.Context(), p.Config, p.Author)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.AddCommand(list, add, rm, install)
	return cmd
}

func newMarketplaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "marketplace",
		Short: "List built-in algorithm presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := algorithm.Marketplace()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tRATING\tDOWNLOADS\tTAGS\tDESCRIPTION")
			for _, p := range presets {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", p.Name, p.Rating, p.Downloads, strings.Join(p.Tags, ","), p.Description)
			}
			return tw.Flush()
		},
	}
}
