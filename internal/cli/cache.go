package cli

import (
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local content cache",
}

func init() {
	RootCmd.AddCommand(cacheCmd)
}
