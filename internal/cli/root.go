// Package cli exposes the translation gateway as a cobra command tree.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/preferences"
	"github.com/davidbz/polyglot/internal/provider/catalog"
	"github.com/davidbz/polyglot/internal/provider/registry"
	"github.com/davidbz/polyglot/internal/routing"
)

// GatewayFactory builds the gateway on first use. Only commands that translate call it,
// so the translation store is not dialled by the others.
type GatewayFactory func() (*domain.GatewayService, error)

// Dependencies is resolved from the dig container.
type Dependencies struct {
	dig.In

	NewGateway  GatewayFactory
	Controller  *routing.Controller
	Catalog     *catalog.Catalog
	Available   *registry.Registry
	Preferences *preferences.Preferences
}

// NewRootCommand creates the polyglot command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:   "polyglot",
		Short: "Translation gateway over multiple machine translation engines",
		Long: `polyglot routes translation requests to the best available engine
for a language pair, falling back to the next best engine on failure.

Examples:
  polyglot translate "good morning" --to es
  polyglot translate "bonjour" --to en --engine gemini --fallback
  polyglot engines
  polyglot preferences --from en --to es`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newTranslateCommand(deps),
		newEnginesCommand(deps),
		newPreferencesCommand(deps),
		newLanguagesCommand(deps),
	)

	return root
}
