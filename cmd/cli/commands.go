package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/akeren/waitlist-api/domain/stats"
	"github.com/akeren/waitlist-api/domain/waitlist"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups digits in counts ("12,345") for operator-facing output.
var printer = message.NewPrinter(language.English)

func runList(ctx context.Context, w io.Writer, service waitlist.WaitlistService) error {
	entries, err := service.ListEntries(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		printer.Fprintln(w, "The waitlist is empty.")
		return nil
	}

	printer.Fprintf(w, "%-8s  %-40s  %s\n", "ID", "EMAIL", "JOINED")
	for _, e := range entries {
		printer.Fprintf(w, "%-8s  %-40s  %s\n", strconv.FormatUint(uint64(e.ID), 10), e.Email, e.CreatedAt)
	}
	printer.Fprintf(w, "%d entries\n", len(entries))
	return nil
}

func runDelete(ctx context.Context, w io.Writer, service waitlist.WaitlistService, rawID string) error {
	id, err := strconv.ParseUint(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid id %q", rawID)
	}

	if err := service.DeleteEntry(ctx, uint(id)); err != nil {
		return err
	}

	printer.Fprintf(w, "Deleted entry %s\n", strconv.FormatUint(id, 10))
	return nil
}

func runStats(ctx context.Context, w io.Writer, service stats.StatsService) error {
	s, err := service.Compute(ctx)
	if err != nil {
		return err
	}

	printer.Fprintf(w, "Total signups: %d\n", s.TotalUsers)
	printer.Fprintf(w, "Joined today:  %d\n", s.TodayUsers)
	printer.Fprintf(w, "Generated at:  %s\n", s.LastUpdated)
	return nil
}
