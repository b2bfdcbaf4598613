package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newEnginesCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List registered engines with their availability and capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ENGINE\tVERSION\tAVAILABLE\tDETECTION\tALIGNMENT")

			for _, name := range deps.Catalog.Names() {
				desc, _ := deps.Catalog.Descriptor(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					desc.Name,
					desc.Version,
					yesNo(deps.Available.Has(name)),
					yesNo(desc.SupportsDetection),
					yesNo(desc.SupportsAlignment))
			}

			return w.Flush()
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
