package cli

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/space-dashboard/internal/calendar"
)

func init() {
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Prefetch every past day of a month into the cache",
		Run:   runWarm,
	}

	cmd.Flags().Int("year", 0, "Year (default: current)")
	cmd.Flags().Int("month", 0, "Month 1-12 (default: current)")
	cmd.Flags().StringP("lang", "l", "", "Language: pt, en, es, ja (default: $LANG)")
	cmd.Flags().IntP("concurrency", "j", 4, "Parallel fetches")

	cacheCmd.AddCommand(cmd)
}

func runWarm(cmd *cobra.Command, args []string) {
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	lang, _ := cmd.Flags().GetString("lang")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	now := timeNow()
	cur := calendar.CursorFor(now)
	if year != 0 {
		if err := cur.SetYear(year, now); err != nil {
			exitErr("warm", err)
		}
	}
	if month != 0 {
		if err := cur.SetMonth(month - 1); err != nil {
			exitErr("warm", err)
		}
	}

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	fetcher := newFetcher(s)
	l := langFlag(lang)

	var fetched, failed atomic.Int32
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(concurrency, 1))
	for _, cell := range calendar.BuildGrid(cur.Year, cur.Month, now) {
		if cell.Empty() || cell.IsFuture {
			continue
		}
		g.Go(func() error {
			if _, err := fetcher.Fetch(ctx, cell.DateKey, l); err != nil {
				failed.Add(1)
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", cell.DateKey, err)
				return nil
			}
			fetched.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Printf(`{"ok":%t,"fetched":%d,"failed":%d}`+"\n", failed.Load() == 0, fetched.Load(), failed.Load())
}
