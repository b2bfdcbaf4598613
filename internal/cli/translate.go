package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidbz/polyglot/internal/domain"
)

type translateFlags struct {
	from      string
	to        string
	engine    string
	alignment bool
	fallback  bool
	json      bool
}

func newTranslateCommand(deps Dependencies) *cobra.Command {
	flags := &translateFlags{}

	cmd := &cobra.Command{
		Use:   "translate TEXT",
		Short: "Translate text with the preferred engine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &domain.TranslationRequest{
				SourceText:      strings.Join(args, " "),
				FromLanguage:    flags.from,
				ToLanguage:      flags.to,
				PreferredEngine: flags.engine,
				WithAlignment:   flags.alignment,
				Fallback:        flags.fallback,
			}

			gateway, err := deps.NewGateway()
			if err != nil {
				return fmt.Errorf("failed to initialize gateway: %w", err)
			}

			resp, err := gateway.Translate(cmd.Context(), req)
			// Flush background store writes before the process exits.
			gateway.Wait()
			if err != nil {
				return err
			}

			if flags.json {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(resp)
			}

			return writeTranslation(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "Source language (ISO-639-1); empty detects it")
	cmd.Flags().StringVar(&flags.to, "to", "", "Target language (ISO-639-1)")
	cmd.Flags().StringVar(&flags.engine, "engine", domain.BestEngine, "Engine name or \"best\"")
	cmd.Flags().BoolVar(&flags.alignment, "alignment", false, "Request word alignment")
	cmd.Flags().BoolVar(&flags.fallback, "fallback", false, "Fall back to the next best engine on failure")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the full response as JSON")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func writeTranslation(cmd *cobra.Command, resp *domain.TranslationResponse) error {
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, resp.TranslatedText); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "engine: %s %s (%s)\n", resp.Engine, resp.EngineVersion, resp.Source)
	if resp.DetectedLanguageConfidence != nil {
		fmt.Fprintf(errOut, "detected: %s (%.2f)\n", resp.FromLanguage, *resp.DetectedLanguageConfidence)
	}
	if len(resp.FailedEngines) > 0 {
		fmt.Fprintf(errOut, "failed: %s\n", strings.Join(resp.FailedEngines, ", "))
	}
	for _, section := range resp.Alignment {
		fmt.Fprintf(out, "%d-%d %s\t->\t%d-%d %s\n",
			section.Src.Start, section.Src.End, section.Src.Text,
			section.Dest.Start, section.Dest.End, section.Dest.Text)
	}

	return nil
}
