package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/space-dashboard/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached entries, newest first",
		Run:   runList,
	}

	cmd.Flags().StringP("ns", "n", "", "Filter by namespace (nasa, nasa_today, astronaut, settings)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("keys-only", false, "Only output keys")

	cacheCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("ns")
	limit, _ := cmd.Flags().GetInt("limit")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.List(cmd.Context(), store.ListParams{NS: ns, Limit: limit})
	if err != nil {
		exitErr("list", err)
	}

	if keysOnly {
		for _, e := range entries {
			fmt.Println(e.Key)
		}
		return
	}

	if jsonOutput() {
		printJSON(entries)
		return
	}
	if err := newRenderer(loadThemes(cmd.Context(), s)).Entries(entries); err != nil {
		exitErr("render", err)
	}
}
