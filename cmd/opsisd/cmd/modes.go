// cmd/opsisd/cmd/modes.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamzrod/opsis-console/internal/edid"
	"github.com/tamzrod/opsis-console/internal/processor"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the video mode table",
	Args:  cobra.NoArgs,
	RunE:  runModes,
}

func init() {
	rootCmd.AddCommand(modesCmd)
}

func runModes(cmd *cobra.Command, args []string) error {
	buf := make([]byte, processor.ModeCount()*processor.DescLen)
	processor.ListModes(buf)

	out := cmd.OutOrStdout()
	for i, t := range processor.Modes {
		fmt.Fprintf(out, "mode %d: %s\n", i, processor.Descriptor(buf, i))
		if debug {
			fmt.Fprintf(out, "  pclk %d.%02d MHz  htotal %d  vtotal %d  %s\n",
				t.PixelClock/100, t.PixelClock%100, t.HTotal(), t.VTotal(), edid.FlagString(t.Flags))
		}
	}
	return nil
}
