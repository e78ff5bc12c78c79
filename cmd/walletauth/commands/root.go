package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/layer-3/walletauth/internal/config"
	"github.com/layer-3/walletauth/internal/logger"
)

var (
	cfg *config.Config
	log *logger.Logger

	apiURL      string
	backend     string
	keyFile     string
	autoApprove bool
)

func Execute() error {
	root := &cobra.Command{
		Use:          "walletauth",
		Short:        "Sign in to a backend with a wallet key",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.NewConfig()
			if err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}

			if apiURL != "" {
				cfg.API.URL = apiURL
			}
			if backend != "" {
				cfg.Session.Backend = backend
			}
			if keyFile != "" {
				cfg.Wallet.KeyFile = keyFile
			}

			log = logger.New(cfg.LogLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api", "", "backend base URL (default $API_URL)")
	root.PersistentFlags().StringVar(&backend, "store", "", "session store: file, redis or memory (default $SESSION_BACKEND)")
	root.PersistentFlags().StringVar(&keyFile, "keys", "", "keyring file (default ~/.walletauth/keys)")
	root.PersistentFlags().BoolVarP(&autoApprove, "yes", "y", false, "approve signature requests without asking")

	root.AddCommand(keygenCmd(), statusCmd(), loginCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	return root.ExecuteContext(ctx)
}
