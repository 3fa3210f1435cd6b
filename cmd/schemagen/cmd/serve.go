package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/preview"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve table models and generated sources over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cobra.CheckErr(a.v.BindPFlag("preview.addr", cmd.Flags().Lookup("addr")))
	return cmd
}

// serve runs the preview server until ctx is cancelled, then drains it
// within the configured shutdown timeout.
func serve(ctx context.Context, a *app) error {
	p := a.cfg.Preview
	srv := &http.Server{
		Addr:         p.Addr,
		Handler:      preview.NewServer(a.generator(nil), a.cfg.Settings(), preview.WithLogger(a.log)).Handler(),
		ReadTimeout:  p.ReadTimeout,
		WriteTimeout: p.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.With().Str("addr", p.Addr).Logger().Info("preview server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errs.Wrap(errs.ErrKindConnectionFailed, "preview server", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), p.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "preview server shutdown", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errs.Wrap(errs.ErrKindConnectionFailed, "preview server", err)
	}
	return nil
}
