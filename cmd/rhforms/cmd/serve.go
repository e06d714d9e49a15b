package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-rh-forms/app/providers"
	"github.com/km-arc/go-rh-forms/app/views"
	"github.com/km-arc/go-rh-forms/framework/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Démarre le serveur HTTP",
		Long: `Démarre l'application RH: listes filtrables, formulaires validés
côté serveur, API JSON de validation et métriques Prometheus sur /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(app.WithEnvFiles(opts.envFiles...), app.WithViews(views.FS))
			if err != nil {
				return err
			}
			if port != "" {
				a.Config().App.Port = port
			}
			if opts.kinds != "" {
				a.Config().Forms.KindsFile = opts.kinds
			}
			if err := a.Register(&providers.AppServiceProvider{}); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "port d'écoute (défaut: APP_PORT)")
	return cmd
}
