package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/keyboard"
)

var keysOpts struct {
	total  int
	lowest int
	mode   string
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().IntVar(&keysOpts.total, "total", constants.GetTotalKeys(), "number of keys")
	keysCmd.Flags().IntVar(&keysOpts.lowest, "lowest", constants.GetLowestKey(), "lowest MIDI key")
	keysCmd.Flags().StringVar(&keysOpts.mode, "mode", keyboard.Uniform.String(), "uniform or differentiated")
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Prints the key panel layout",
	Long:  `Prints every key of the panel, top to bottom, with its name and rectangle.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := keyboard.ParseMode(keysOpts.mode)
		if err != nil {
			return err
		}
		layout := keyboard.DefaultLayout(mode)
		layout.LowestKey = keysOpts.lowest
		keys, err := keyboard.ComputeKeys(keysOpts.total, layout)
		if err != nil {
			return err
		}
		return printKeys(os.Stdout, keys)
	},
}

func printKeys(out io.Writer, keys []keyboard.KeyDescriptor) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tCOLOR\tX\tY\tW\tH")
	for _, k := range keys {
		color := "white"
		if k.Black {
			color = "black"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%g\t%g\t%g\n", k.Key, k.Name, color, k.Rect.X, k.Rect.Y, k.Rect.W, k.Rect.H)
	}
	fmt.Fprintf(w, "\t\t\t\t\t\t%g\n", keyboard.Height(keys))
	return w.Flush()
}
