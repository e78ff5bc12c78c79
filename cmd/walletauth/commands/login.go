package commands

import (
	"github.com/spf13/cobra"

	"github.com/layer-3/walletauth/core"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Connect the wallet and sign in unless a valid session exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.controller.Connect(ctx); err != nil {
				return err
			}

			if s := a.controller.State(); s.Account != nil && s.Phase == core.PhaseUnauthenticated {
				if err := a.controller.SignIn(ctx); err != nil {
					return err
				}
			}

			printState(cmd.OutOrStdout(), a.controller.State())
			return nil
		},
	}
}
