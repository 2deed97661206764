package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/feedkit/core"
)

func newNotificationsCmd(configPath func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "List and acknowledge notifications",
	}

	var (
		unread bool
		limit  int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), configPath(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			var ns []*core.Notification
			if unread {
				ns, err = a.notifications.Unread(cmd.Context())
			} else {
				ns, err = a.notifications.All(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPRIORITY\tREAD\tTIME\tTITLE")
			for _, n := range ns {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", n.ID, n.Priority, n.Read, n.Timestamp.Format(time.DateTime), n.Title)
			}
			return tw.Flush()
		},
	}
	list.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	list.Flags().IntVar(&limit, "limit", 0, "maximum number of notifications (default 50)")

	var all bool
	read := &cobra.Command{
		Use:   "read [ID]",
		Short: "Mark a notification, or all of them, as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == all {
				return errors.New("specify exactly one of ID or --all")
			}
			a, err := openApp(cmd.Context(), configPath(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			if all {
				n, err := a.notifications.MarkAllRead(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "marked %d notifications as read\n", n)
				return nil
			}
			return a.notifications.MarkRead(cmd.Context(), args[0])
		},
	}
	read.Flags().BoolVar(&all, "all", false, "mark every notification as read")

	cmd.AddCommand(list, read)
	return cmd
}
