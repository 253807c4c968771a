package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "astronaut",
		Short: "Show the astronaut of the day",
		Run:   runAstronaut,
	}

	RootCmd.AddCommand(cmd)
}

func runAstronaut(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	a, err := newDailyAstronaut(s).Today(cmd.Context())
	if err != nil {
		exitErr("astronaut", err)
	}

	if jsonOutput() {
		printJSON(a)
		return
	}
	newRenderer(loadThemes(cmd.Context(), s)).Astronaut(a)
}
