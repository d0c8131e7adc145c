package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pricofy/chunked-translator/internal/domain"
)

func (c *cli) translateCmd() *cobra.Command {
	var (
		from    string
		to      string
		asJSON  bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a file or standard input",
		Long: `Translate text read from a file, or from standard input when no file is given.

The text is split into segments that are translated in parallel. Segments the
backend cannot translate after all retries are replaced by a labeled
placeholder and reported on standard error.`,
		Example: `  transmgr translate --from en --to fr notes.txt
  echo "Hello world." | transmgr translate --from en --to es
  transmgr translate --from en --to de --json article.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			o, _, _, err := c.newOrchestrator(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := o.Translate(cmd.Context(), domain.TranslationRequest{
				Text:       text,
				SourceLang: from,
				TargetLang: to,
			})
			if err != nil {
				return err
			}

			if resp.FailedCount > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d of %d segments could not be translated\n",
					resp.FailedCount, resp.ChunksProcessed)
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}
			return writeResult(out, resp, asJSON)
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "source language code (e.g. en)")
	cmd.Flags().StringVarP(&to, "to", "t", "", "target language code (e.g. fr)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response with diagnostics as JSON")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the result to a file instead of stdout")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}

func writeResult(w io.Writer, resp *domain.TranslationResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err := fmt.Fprintln(w, resp.TranslatedText)
	return err
}
