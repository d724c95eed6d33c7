package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/eringen/wpfront"
)

func runInbox(args []string) error {
	fs := flag.NewFlagSet("inbox", flag.ContinueOnError)
	limit := fs.Int("n", 20, "number of messages to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := wpfront.LoadConfig()
	if err != nil {
		return err
	}
	inbox, err := wpfront.OpenInbox(cfg.ContactDBPath)
	if err != nil {
		return err
	}
	defer inbox.Close()

	ctx := context.Background()
	total, err := inbox.Count(ctx)
	if err != nil {
		return err
	}
	msgs, err := inbox.Recent(ctx, *limit)
	if err != nil {
		return err
	}

	fmt.Printf("%d of %d messages in %s\n\n", len(msgs), total, cfg.ContactDBPath)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRECEIVED\tFROM\tSUBJECT\tMESSAGE")
	for _, m := range msgs {
		fmt.Fprintf(tw, "%d\t%s\t%s <%s>\t%s\t%s\n",
			m.ID, humanize.Time(m.CreatedAt), m.Name, m.Email, m.Subject, preview(m.Body, 60))
	}
	return tw.Flush()
}

// preview flattens body to one line of at most n runes.
func preview(body string, n int) string {
	s := strings.Join(strings.Fields(body), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
