package main

import (
	"os"

	"github.com/layer-3/walletauth/cmd/walletauth/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
