package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidbz/polyglot/internal/preferences"
	"github.com/davidbz/polyglot/internal/routing"
)

type preferencesFlags struct {
	from string
	to   string
}

func newPreferencesCommand(deps Dependencies) *cobra.Command {
	flags := &preferencesFlags{}

	cmd := &cobra.Command{
		Use:   "preferences",
		Short: "Show the resolved engine ordering per language pair",
		Long: `Show the full engine ordering for a language pair, best first.
Without --to, prints a markdown table covering every pair named in the
language preferences file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := deps.Catalog.Names()

			if flags.to != "" {
				ranked := routing.Ranked(names, flags.from, flags.to, deps.Preferences)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ranked, ", "))
				return err
			}

			return writePreferenceTable(cmd.OutOrStdout(), names, deps.Preferences)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "Source language")
	cmd.Flags().StringVar(&flags.to, "to", "", "Target language")

	return cmd
}

// writePreferenceTable renders the ordering for every pair of languages named in the table.
// Identical pairs are skipped except for the wildcard.
func writePreferenceTable(w io.Writer, names []string, prefs *preferences.Preferences) error {
	languages := specifiedLanguages(prefs.Table)

	type row struct{ from, to, ordering string }
	rows := make([]row, 0, len(languages)*len(languages))
	for _, from := range languages {
		for _, to := range languages {
			if from == to && from != preferences.Wildcard {
				continue
			}
			ranked := routing.Ranked(names, from, to, prefs)
			rows = append(rows, row{from: from, to: to, ordering: strings.Join(ranked, ", ")})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].from+rows[i].to < rows[j].from+rows[j].to
	})

	if _, err := fmt.Fprintln(w, "| From | To | Engine Ordering |"); err != nil {
		return err
	}
	fmt.Fprintln(w, "|------|----|-----------------|")
	for _, r := range rows {
		fmt.Fprintf(w, "| %s | %s | %s |\n", r.from, r.to, r.ordering)
	}

	return nil
}

func specifiedLanguages(table preferences.Table) []string {
	seen := make(map[string]struct{})
	for from, targets := range table {
		seen[from] = struct{}{}
		for to := range targets {
			seen[to] = struct{}{}
		}
	}

	languages := make([]string, 0, len(seen))
	for language := range seen {
		languages = append(languages, language)
	}
	sort.Strings(languages)

	return languages
}
