package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLanguagesCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the language pairs supported by the available engines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pairs := deps.Controller.CombinedSupportedLanguages()
			for _, from := range pairs.Sources() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n",
					from, strings.Join(pairs.Targets(from), ", ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
