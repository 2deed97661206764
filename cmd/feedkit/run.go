package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/engine"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Parse and validate an algorithm file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := algorithm.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s (%s)\n", cfg.Name, cfg.Version)
			return nil
		},
	}
}

// newRunCmd 对本地 JSON 内容文件离线执行算法，不需要任何存储。
func newRunCmd() *cobra.Command {
	var (
		algoPath  string
		itemsPath string
		nowStr    string
		seed      uint64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute an algorithm against a JSON file of content items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := algorithm.LoadFile(algoPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			items, err := readItems(itemsPath)
			if err != nil {
				return err
			}

			rctx := &core.RankContext{}
			if nowStr != "" {
				now, err := time.Parse(time.RFC3339, nowStr)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
				rctx.Now = now
			}
			if cmd.Flags().Changed("seed") {
				rctx.Rand = rand.New(rand.NewPCG(seed, seed))
			}

			res, err := engine.New().Run(cmd.Context(), rctx, items, cfg)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&algoPath, "algorithm", "a", "", "algorithm YAML file")
	cmd.Flags().StringVarP(&itemsPath, "items", "i", "", "JSON file with an array of content items")
	cmd.Flags().StringVar(&nowStr, "now", "", "reference time (RFC3339), defaults to the current time")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the random sort")
	_ = cmd.MarkFlagRequired("algorithm")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

func readItems(path string) ([]*core.ContentItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var items []*core.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
