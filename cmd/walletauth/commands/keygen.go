package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layer-3/walletauth/adapters/wallet"
)

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Add a new key to the local keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			keyring, err := wallet.LoadKeyring(cfg.Wallet.KeyFile)
			if err != nil {
				return err
			}

			address, err := keyring.Generate()
			if err != nil {
				return err
			}
			if err := keyring.Save(cfg.Wallet.KeyFile); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Key created.\nAddress: %s\n", address.Hex())
			return nil
		},
	}
}
