package testutil

import (
	"io"

	"github.com/layer-3/walletauth/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
