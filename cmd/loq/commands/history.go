// cmd/loq/commands/history.go
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"loq/internal/config"
)

// HistoryCommand lists the most recent recorded lines (-n, default 20).
func HistoryCommand(args []string) error {
	o, err := parseOptions("history", args, "n:")
	if err != nil {
		return err
	}
	n := 20
	if v, ok := o.Flags['n']; ok {
		n, err = strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid -n parameter %q", v)
		}
	}
	return listHistory(context.Background(), o, n, os.Stdout, time.Now())
}

func listHistory(ctx context.Context, o *Options, n int, out io.Writer, now time.Time) error {
	store, err := o.openHistory(ctx)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if store == nil {
		return fmt.Errorf("history is disabled; set history.dsn in %s", config.FileName)
	}
	defer store.Close()

	entries, err := store.Recent(ctx, n)
	if err != nil {
		return err
	}
	failed := color.New(color.FgRed)
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		when := humanize.RelTime(e.CreatedAt, now, "ago", "from now")
		prefix := fmt.Sprintf("%s #%-3d %-16s ", e.SessionID, e.Seq, when)
		if e.OK {
			fmt.Fprintf(out, "%s%s\n", prefix, e.Line)
		} else {
			failed.Fprintf(out, "%s%s\n", prefix, e.Line)
		}
	}
	return nil
}
