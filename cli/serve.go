package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/imgchan/repository/extractions"
	"github.com/imgchan/router"
	"github.com/imgchan/web/uploader"
)

const (
	flagAddr        = "addr"
	shutdownTimeout = 5 * time.Second
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f := cmd.Flag(flagAddr); f.Changed {
				a.cfg.Addr = f.Value.String()
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String(flagAddr, "", "listen address (default $IMGCHAN_ADDR or :8080)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if !a.cfg.Postgres.Enabled() {
		return errors.New("serve needs a database, set PGHOST")
	}
	db, err := sql.Open("postgres", a.cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("error creating db connection: %w", err)
	}
	defer db.Close()

	repo := extractions.NewRepo(db)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	uploadSvc, err := a.newUploader()
	if err != nil {
		return err
	}
	l, err := a.newLoader()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: router.New(repo, uploadSvc, l, a.log),
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("error running server: %w", err)
	case <-ctx.Done():
	}

	a.log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	a.log.Info().Msg("Server stopped")
	return nil
}

// newUploader returns an S3 uploader for the configured bucket, or a
// discarding one when there is none.
func (a *app) newUploader() (uploader.Service, error) {
	if a.cfg.S3Bucket == "" {
		return uploader.Discard(), nil
	}
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("error creating aws session: %w", err)
	}
	return uploader.New(s3manager.NewUploader(sess), a.cfg.S3Bucket), nil
}
