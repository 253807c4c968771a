package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/space-dashboard/internal/calendar"
)

func init() {
	apodCmd := &cobra.Command{
		Use:   "apod",
		Short: "Show the picture of the day for a date",
		Run:   runApod,
	}
	apodCmd.Flags().String("date", "", "Date YYYY-MM-DD (default: today)")
	apodCmd.Flags().StringP("lang", "l", "", "Language: pt, en, es, ja (default: $LANG)")

	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's featured picture",
		Run:   runToday,
	}
	todayCmd.Flags().StringP("lang", "l", "", "Language: pt, en, es, ja (default: $LANG)")

	RootCmd.AddCommand(apodCmd, todayCmd)
}

func runApod(cmd *cobra.Command, args []string) {
	date, _ := cmd.Flags().GetString("date")
	lang, _ := cmd.Flags().GetString("lang")
	if date == "" {
		runToday(cmd, args)
		return
	}

	future, err := calendar.IsFutureDate(date, timeNow())
	if err != nil {
		exitErr("apod", err)
	}
	if future {
		exitErr("apod", fmt.Errorf("%s is in the future", date))
	}

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	l := langFlag(lang)
	content, err := newFetcher(s).Fetch(cmd.Context(), date, l)
	if err != nil {
		exitErr("apod", err)
	}

	if jsonOutput() {
		printJSON(content)
		return
	}
	newRenderer(loadThemes(cmd.Context(), s)).Content(content, l)
}

func runToday(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("lang")

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	l := langFlag(lang)
	content, err := newFetcher(s).Featured(cmd.Context(), l)
	if err != nil {
		exitErr("today", err)
	}

	if jsonOutput() {
		printJSON(content)
		return
	}
	newRenderer(loadThemes(cmd.Context(), s)).Content(content, l)
}
