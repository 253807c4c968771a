package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "moon",
		Short: "Show the current moon phase",
		Run:   runMoon,
	}

	cmd.Flags().StringP("lang", "l", "", "Language: pt, en, es, ja (default: $LANG)")

	RootCmd.AddCommand(cmd)
}

func runMoon(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("lang")

	phase, err := newMoonClient().Current(cmd.Context(), langFlag(lang))
	if err != nil {
		exitErr("moon", err)
	}

	if jsonOutput() {
		printJSON(phase)
		return
	}

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	newRenderer(loadThemes(cmd.Context(), s)).Moon(phase)
}
