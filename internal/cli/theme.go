package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/space-dashboard/internal/theme"
)

func init() {
	cmd := &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark)},
		Run:       runTheme,
	}

	RootCmd.AddCommand(cmd)
}

func runTheme(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	current, err := theme.Load(cmd.Context(), s)
	if err != nil {
		exitErr("load theme", err)
	}

	if len(args) == 1 {
		t, err := theme.Parse(args[0])
		if err != nil {
			exitErr("theme", err)
		}
		if t != current {
			if err := theme.Save(cmd.Context(), s, t); err != nil {
				exitErr("save theme", err)
			}
		}
		current = t
	}

	if jsonOutput() {
		printJSON(map[string]theme.Theme{"theme": current})
		return
	}
	fmt.Println(current)
}
