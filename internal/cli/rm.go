package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/space-dashboard/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete a cached entry or a whole namespace",
		Run:   runRm,
	}

	cmd.Flags().StringP("ns", "n", "", "Delete every entry in this namespace")
	cmd.Flags().StringP("key", "k", "", "Delete this key")

	cacheCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("ns")
	key, _ := cmd.Flags().GetString("key")

	if ns == "" && key == "" {
		exitErr("rm", fmt.Errorf("--key or --ns is required"))
	}

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.Rm(cmd.Context(), store.RmParams{NS: ns, Key: key})
	if err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"ns":%q,"key":%q,"removed":%d}`+"\n", ns, key, n)
}
