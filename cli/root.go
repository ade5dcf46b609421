// Package cli wires the imgchan commands.
package cli

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/imgchan/config"
	"github.com/imgchan/imgcache"
	"github.com/imgchan/loader"
	"github.com/imgchan/web/downloader"
)

const (
	flagCacheDir    = "cache-dir"
	flagHTTPTimeout = "http-timeout"
)

type app struct {
	cfg config.Config
	log zerolog.Logger
}

// New returns the root command.
func New() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "imgchan [sub-command]",
		Short: "Load images and extract a single color channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd)
			if err != nil {
				return fmt.Errorf("could not create logger: %w", err)
			}
			a.log = log

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if f := cmd.Flag(flagCacheDir); f.Changed {
				cfg.CacheDir = f.Value.String()
			}
			if cmd.Flag(flagHTTPTimeout).Changed {
				if cfg.HTTPTimeout, err = cmd.Flags().GetDuration(flagHTTPTimeout); err != nil {
					return err
				}
			}
			a.cfg = cfg
			return nil
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	registerLoggingFlags(cmd)
	cmd.PersistentFlags().String(flagCacheDir, "", "directory of the image cache (default $IMGCHAN_CACHE_DIR or .imgcache next to the binary)")
	cmd.PersistentFlags().Duration(flagHTTPTimeout, 0, "timeout of image downloads (default $IMGCHAN_HTTP_TIMEOUT or 30s)")

	cmd.AddCommand(newExtractCommand(a), newServeCommand(a))
	return cmd
}

func (a *app) newLoader() (*loader.Loader, error) {
	client := &http.Client{Timeout: a.cfg.HTTPTimeout}
	cache, err := imgcache.New(a.cfg.CacheDir, downloader.New(client), imgcache.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("could not create image cache: %w", err)
	}
	return loader.New(cache, a.log), nil
}
