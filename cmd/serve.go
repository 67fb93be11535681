package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/logger"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	addViewFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", constants.GetAddr(), "listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve [FILE]",
	Short: "Serves an editor session over HTTP",
	Long: `Starts one editor session and exposes its host events (load, scroll,
resize, activate) and rendered surfaces over HTTP.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		return serve(cmd.Context(), path)
	},
}

func serve(ctx context.Context, path string) error {
	ed, err := openEditor(path)
	if err != nil {
		return err
	}
	defer ed.Close()

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           newRouter(ed),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	logger.L().Info("listening", "addr", serveAddr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
