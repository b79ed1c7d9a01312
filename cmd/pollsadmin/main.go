// Command pollsadmin manages questions and choices from the shell.
package main

import (
	"os"

	"github.com/vncsmyrnk/premios/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger := log.WithComponent("pollsadmin")
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
