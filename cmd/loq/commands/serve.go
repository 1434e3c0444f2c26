// cmd/loq/commands/serve.go
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"loq/internal/network"
)

// ServeCommand exposes sessions over WebSocket until interrupted.
func ServeCommand(args []string) error {
	o, err := parseOptions("serve", args, "a:")
	if err != nil {
		return err
	}
	if len(o.Args) != 0 {
		return fmt.Errorf("usage: loq serve [-a addr]")
	}
	addr := o.Config.Serve.Addr
	if a, ok := o.Flags['a']; ok {
		addr = a
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := network.NewWebSocketServer(addr, o.sessionOptions(""))
	store, err := o.openHistory(ctx)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if store != nil {
		defer store.Close()
		server.WithRecorder(store)
	}
	return server.Serve(ctx)
}
