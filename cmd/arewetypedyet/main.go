// main is the entry point for the arewetypedyet CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clokep/arewetypedyet/cmd"
	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetStoreManager(iocache.Manager)
	err := cmd.Execute(ctx)
	iocache.CloseStore()
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
