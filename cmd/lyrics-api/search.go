package main

import (
	"context"
	"encoding/json"
	"time"

	"lyrics-api/internal/app"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"

	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdSearch())
}

func cmdSearch() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "search",
		Short:        "Search providers and print ranked results as JSON",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.NewManager(cfg)
			if err != nil {
				return err
			}
			defer manager.Close()

			q := match.Query{
				Title:      flagString(cmd, "title"),
				Artists:    flagStrings(cmd, "artist"),
				Album:      flagString(cmd, "album"),
				DurationMs: flagInt64(cmd, "duration"),
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			var results any
			if name := flagString(cmd, "provider"); name != "" {
				p, err := provider.ByName(name)
				if err != nil {
					return err
				}
				results, err = manager.Search(ctx, p, q)
				if err != nil {
					return err
				}
			} else {
				results, err = manager.SearchAll(ctx, q)
				if err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
	cmd.Flags().StringP("provider", "p", "", "Search a single provider (default: all)")
	cmd.Flags().String("title", "", "Song title")
	cmd.Flags().StringArray("artist", nil, "Artist (repeatable)")
	cmd.Flags().String("album", "", "Album")
	cmd.Flags().Int64("duration", 0, "Duration in milliseconds")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
