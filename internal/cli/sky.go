package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/space-dashboard/internal/model"
	"github.com/rcliao/space-dashboard/internal/sky"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sky",
		Short: "Get a star chart for a location",
		Run:   runSky,
	}

	cmd.Flags().String("lat", "", "Observer latitude")
	cmd.Flags().String("lon", "", "Observer longitude")

	RootCmd.AddCommand(cmd)
}

func runSky(cmd *cobra.Command, args []string) {
	latStr, _ := cmd.Flags().GetString("lat")
	lonStr, _ := cmd.Flags().GetString("lon")

	lat, lon, err := sky.ParseCoordinates(latStr, lonStr)
	if err != nil {
		exitErr("sky", err)
	}

	url, err := newSkyClient().StarChart(cmd.Context(), lat, lon, timeNow().UTC().Format("2006-01-02"))
	if err != nil {
		exitErr("sky", err)
	}

	if jsonOutput() {
		printJSON(model.SkyImage{ImageURL: url})
		return
	}
	if url == nil {
		fmt.Println("no chart available")
		return
	}
	fmt.Println(*url)
}
