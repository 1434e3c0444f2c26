// cmd/loq/commands/repl.go
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"loq/internal/database"
	"loq/internal/repl"
	"loq/internal/session"
)

// REPLCommand starts the interactive loop. -r ID replays a recorded session
// into the new one before reading input.
func REPLCommand(args []string) error {
	o, err := parseOptions("repl", args, "r:")
	if err != nil {
		return err
	}
	if len(o.Args) != 0 {
		return fmt.Errorf("usage: loq repl [options]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := session.New(os.Stdout, o.sessionOptions(""))

	store, err := o.openHistory(ctx)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if store != nil {
		defer store.Close()
		sess.WithRecorder(store)
		if id, ok := o.Flags['r']; ok {
			if err := resume(ctx, sess, store, id, os.Stderr); err != nil {
				return err
			}
		}
	} else if _, ok := o.Flags['r']; ok {
		return fmt.Errorf("-r needs history.dsn to be configured")
	}

	r := repl.New(sess, os.Stdin, os.Stdout, os.Stderr, repl.Options{
		Prompt:      o.Config.Prompt,
		Interactive: repl.IsTerminal(os.Stdin),
		Color:       o.Config.Color,
	})
	if err := r.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// resume rebuilds a recorded session inside sess. The replayed lines are
// journaled again under sess, so sess can itself be resumed later.
func resume(ctx context.Context, sess *session.Session, store *database.Store, id string, stderr io.Writer) error {
	lines, err := store.Replay(ctx, id)
	if err != nil {
		return err
	}
	failed := sess.Restore(ctx, lines)
	fmt.Fprintf(stderr, "restored %d lines from session %s", len(lines), id)
	if failed > 0 {
		fmt.Fprintf(stderr, " (%d failed again)", failed)
	}
	fmt.Fprintln(stderr)
	return nil
}
