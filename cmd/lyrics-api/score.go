package main

import (
	"fmt"

	"lyrics-api/pkg/match"

	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdScore())
}

func cmdScore() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "score",
		Short:        "Score a candidate track against a query",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				title      = flagString(cmd, "title")
				artists    = flagStrings(cmd, "artist")
				duration   = flagInt64(cmd, "duration")
				candTitle  = flagString(cmd, "candidate-title")
				candArtist = flagStrings(cmd, "candidate-artist")
				candDur    = flagInt64(cmd, "candidate-duration")
			)

			q := match.Query{Title: title, Artists: artists, DurationMs: duration}
			c := match.Track{Title: candTitle, Artists: candArtist, DurationMs: candDur}
			ev := cfg.Match.Evaluate(q, c)

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.3f\n", ev.Type, ev.TitleSimilarity)
			return nil
		},
	}
	cmd.Flags().String("title", "", "Query title")
	cmd.Flags().StringArray("artist", nil, "Query artist (repeatable)")
	cmd.Flags().Int64("duration", 0, "Query duration in milliseconds")
	cmd.Flags().String("candidate-title", "", "Candidate title")
	cmd.Flags().StringArray("candidate-artist", nil, "Candidate artist (repeatable)")
	cmd.Flags().Int64("candidate-duration", 0, "Candidate duration in milliseconds")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("candidate-title")
	return cmd
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func flagStrings(cmd *cobra.Command, name string) []string {
	v, _ := cmd.Flags().GetStringArray(name)
	return v
}

func flagInt64(cmd *cobra.Command, name string) int64 {
	v, _ := cmd.Flags().GetInt64(name)
	return v
}
