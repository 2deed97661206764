package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "feedkit",
		Short:         "Programmable feed aggregation engine",
		Long:          "feedkit pulls content from RSS, Hacker News, Reddit and webhooks, and ranks it with user-written YAML algorithms.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/feedkit/config.yaml)")

	cfgPath := func() string { return configPath }
	root.AddCommand(
		newVersionCmd(),
		newValidateCmd(),
		newRunCmd(),
		newFetchCmd(cfgPath),
		newFeedCmd(cfgPath),
		newAlgorithmsCmd(cfgPath),
		newMarketplaceCmd(),
		newNotificationsCmd(cfgPath),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "feedkit %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// parseSince 解析时长，额外支持 "7d" 这样的天数写法。
func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
