package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Print a cached entry",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("value", false, "Print only the stored value")

	cacheCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	valueOnly, _ := cmd.Flags().GetBool("value")

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entry, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}

	if valueOnly {
		fmt.Println(entry.Value)
		return
	}
	printJSON(entry)
}
