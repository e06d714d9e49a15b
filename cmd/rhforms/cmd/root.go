// Package cmd implements the rhforms command line.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-rh-forms/framework/dom"
	"github.com/km-arc/go-rh-forms/framework/forms"
	"github.com/km-arc/go-rh-forms/framework/logging"
)

type rootOptions struct {
	envFiles []string
	logLevel string
	kinds    string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "rhforms",
		Short: "CY-RH - validation des formulaires RH",
		Long: `rhforms sert l'application RH et expose le moteur de validation
des formulaires et le filtre de tableaux en ligne de commande.

Commandes:
  serve   - serveur HTTP (listes, formulaires, API de validation)
  check   - valide un formulaire d'une page HTML
  filter  - applique recherche et filtres à un tableau d'une page HTML`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.Config{Level: opts.logLevel, Format: "console", Output: cmd.ErrOrStderr()})
		},
	}
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env", nil, "fichiers .env (défaut: .env)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "niveau de log (trace|debug|info|warn|error)")
	root.PersistentFlags().StringVar(&opts.kinds, "kinds", "", "configuration YAML des types de formulaires")

	root.AddCommand(newServeCmd(opts), newCheckCmd(opts), newFilterCmd(), newVersionCmd())
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) loadKinds() (*forms.Kinds, error) {
	if o.kinds == "" {
		return forms.DefaultKinds(), nil
	}
	return forms.LoadKindsFile(o.kinds)
}

func readDocument(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.Parse(f)
}

func writeDocument(path string, doc *dom.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := doc.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// splitPair parses "key=value".
func splitPair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return "", "", fmt.Errorf("%q: attendu clé=valeur", s)
	}
	return strings.TrimSpace(k), v, nil
}

// splitColumn parses "index=value".
func splitColumn(s string) (int, string, error) {
	k, v, err := splitPair(s)
	if err != nil {
		return 0, "", err
	}
	n, err := strconv.Atoi(k)
	if err != nil || n < 0 {
		return 0, "", fmt.Errorf("%q: index de colonne invalide", k)
	}
	return n, v, nil
}
