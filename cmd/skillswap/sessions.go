package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/skillswap/skillswap/internal/config"
	"github.com/skillswap/skillswap/internal/poll"
	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
	"github.com/skillswap/skillswap/pkg/gate"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

func printSessions(ctx context.Context, c *client.Client, policy gate.Policy, me domain.User, out io.Writer) error {
	sessions, err := c.ListSessions(ctx, me.ID)
	if err != nil {
		return fmt.Errorf("list sessions: %s", client.Reason(err))
	}
	writeSessionTable(out, sessions, policy, me, time.Now())
	return nil
}

func watchSessions(ctx context.Context, c *client.Client, cfg *config.Config, me domain.User, out io.Writer, logger *slog.Logger) error {
	policy := cfg.Policy()
	err := poll.Every(ctx, cfg.SessionRefresh, logger, func(ctx context.Context) error {
		sessions, err := c.ListSessions(ctx, me.ID)
		if err != nil {
			fmt.Fprint(out, clearScreen)
			fmt.Fprintf(out, "error: %s (retrying every %s)\n", client.Reason(err), cfg.SessionRefresh)
			return err
		}
		fmt.Fprint(out, clearScreen)
		writeSessionTable(out, sessions, policy, me, time.Now())
		fmt.Fprintf(out, "\nrefreshing every %s · ctrl+c to stop\n", cfg.SessionRefresh)
		return nil
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// writeSessionTable prints one row per session in the same order as the TUI.
func writeSessionTable(out io.Writer, sessions []domain.Session, policy gate.Policy, me domain.User, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions.")
		return
	}

	sorted := make([]domain.Session, len(sessions))
	copy(sorted, sessions)
	policy.Sort(sorted, now)

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSTATE\tSTART\tMIN\tWITH\tWHEN\tLINK")
	for _, s := range sorted {
		state := policy.ClassifySession(s, now)
		start := "?"
		if s.StartTime.Valid() {
			start = s.StartTime.Local().Format("2006-01-02 15:04")
		}
		link := "-"
		if state != gate.Expired && s.MeetingLink != "" {
			link = s.MeetingLink
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			strconv.FormatInt(s.ID, 10), state, start, s.Minutes(),
			s.Counterpart(me.ID).DisplayName(), describeWhen(state, s, policy, now), link)
	}
	writer.Flush() //nolint:errcheck
}

// describeWhen renders the countdown column.
func describeWhen(state gate.State, s domain.Session, policy gate.Policy, now time.Time) string {
	unlock, end := policy.Window(s.StartTime.Time, s.DurationMinutes)
	switch state {
	case gate.Locked:
		return "opens " + humanize.RelTime(unlock, now, "ago", "from now")
	case gate.Active:
		return "ends " + humanize.RelTime(end, now, "ago", "from now")
	}
	if !s.StartTime.Valid() {
		return "ended"
	}
	return "ended " + humanize.RelTime(end, now, "ago", "from now")
}
