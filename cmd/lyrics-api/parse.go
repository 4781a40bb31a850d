package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"lyrics-api/pkg/fileutil"
	"lyrics-api/pkg/lyrics"

	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdParse())
}

func cmdParse() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "parse <file>",
		Short:        "Parse a raw lyrics file into the normalized JSON document",
		Long:         "Parse a raw lyrics file (lrc, yrc, qrc, krc, musixmatch) and print the document as JSON. Use - to read stdin.",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")

			format, ok := lyrics.ParseFormat(formatName)
			if !ok {
				return fmt.Errorf("unknown format %q", formatName)
			}

			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			doc, err := lyrics.Parse(lyrics.Payload{Format: format, Data: string(data)})
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			encoded = append(encoded, '\n')

			if out == "" {
				_, err = cmd.OutOrStdout().Write(encoded)
				return err
			}
			return fileutil.WriteFileOverwrite(out, encoded, 0644)
		},
	}
	cmd.Flags().StringP("format", "f", "lrc", "Input format: lrc, yrc, qrc, krc, musixmatch")
	cmd.Flags().StringP("out", "o", "", "Write the document to this file instead of stdout")
	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
