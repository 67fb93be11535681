package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/editor"
	"github.com/jsphweid/ustxroll/keyboard"
	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/report"
)

var verbose bool

var flushReports = func() {}

// editor flags shared by render and serve
var view struct {
	width  int
	height int
	mode   string
}

var rootCmd = &cobra.Command{
	Use:   "ustxroll",
	Short: "Piano-roll views of USTX scores",
	Long: `Renders USTX (and MIDI) scores as a piano roll: a key panel, a note grid
with lyrics and pitch curves, and a phoneme timeline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
		flush, err := report.Init(constants.GetSentryDSN())
		if err != nil {
			logger.L().Warn("error reporting disabled", "err", err)
			return nil
		}
		flushReports = flush
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&view.width, "width", constants.DefaultViewWidth, "visible grid width in pixels")
	cmd.Flags().IntVar(&view.height, "height", constants.DefaultViewHeight, "visible grid height in pixels")
	cmd.Flags().StringVar(&view.mode, "mode", keyboard.Uniform.String(), "keyboard layout: uniform or differentiated")
}

func editorConfig() (editor.Config, error) {
	cfg := editor.DefaultConfig()
	mode, err := keyboard.ParseMode(view.mode)
	if err != nil {
		return cfg, err
	}
	cfg.KeyboardMode = mode
	if view.width > 0 {
		cfg.ClientWidth = view.width
	}
	if view.height > 0 {
		cfg.ClientHeight = view.height
	}
	return cfg, nil
}

// Run executes the command line in args without exiting the process.
func Run(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		report.Error(err)
	}
	flushReports()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", report.Message(err))
		os.Exit(1)
	}
}
