package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/layer-3/walletauth/core"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Connect the wallet and revalidate the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.controller.Connect(cmd.Context()); err != nil {
				return err
			}

			printState(cmd.OutOrStdout(), a.controller.State())
			return nil
		},
	}
}

func printState(w io.Writer, s core.AuthState) {
	fmt.Fprintf(w, "Phase: %s\n", s.Phase)
	if s.Account != nil {
		fmt.Fprintf(w, "Account: %s (%s)\n", s.Account.Address, s.Account.Name)
	}
	fmt.Fprintf(w, "Authenticated: %t\n", s.Authenticated)
	if s.Secret != nil {
		fmt.Fprintf(w, "Secret: %s\n", *s.Secret)
	}
}
