package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/imgchan/channel"
	"github.com/imgchan/loader"
)

const (
	// DefaultSource is the sample image processed when no source is given.
	DefaultSource = "https://www.juliebergan.no/sites/g/files/g2000006326/f/sample-4.jpg"

	flagChannel = "channel"
	flagOut     = "out"
	flagNoCache = "no-cache"
	flagFormat  = "format"
	flagUpload  = "upload"

	inputName  = "extractChannel-Input"
	outputName = "extractChannel-Output"
)

func newExtractCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [SOURCE]",
		Short: "Extract a single color channel of an image given by URL or path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := DefaultSource
			if len(args) == 1 {
				source = args[0]
			}
			return a.extract(cmd, source)
		},
	}

	cmd.Flags().IntP(flagChannel, "c", 0, "channel to keep (0 red, 1 green, 2 blue, 3 alpha)")
	cmd.Flags().StringP(flagOut, "o", "./data", "output directory")
	cmd.Flags().Bool(flagNoCache, false, "don't read or write the image cache")
	cmd.Flags().String(flagFormat, "jpeg", "output format (jpeg, png)")
	cmd.Flags().Bool(flagUpload, false, "upload input and output to $IMGCHAN_S3_BUCKET")
	return cmd
}

func (a *app) extract(cmd *cobra.Command, source string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	target, err := flags.GetInt(flagChannel)
	if err != nil {
		return err
	}
	out, err := flags.GetString(flagOut)
	if err != nil {
		return err
	}
	noCache, err := flags.GetBool(flagNoCache)
	if err != nil {
		return err
	}
	format, err := imaging.FormatFromExtension(strings.ToLower(flags.Lookup(flagFormat).Value.String()))
	if err != nil || (format != imaging.JPEG && format != imaging.PNG) {
		return fmt.Errorf("unsupported output format: %s", flags.Lookup(flagFormat).Value.String())
	}
	upload, err := flags.GetBool(flagUpload)
	if err != nil {
		return err
	}

	l, err := a.newLoader()
	if err != nil {
		return err
	}

	payload, err := l.LoadString(ctx, source, loader.Options{DisableCache: noCache})
	if err != nil {
		return err
	}

	res, err := channel.Extract(ctx, payload.Data, target, channel.WithFormat(format))
	if err != nil {
		return err
	}
	a.log.Info().
		Str("source", source).
		Int("channel", target).
		Int("channels", res.Channels).
		Str("resolution", res.Resolution()).
		Msg("Channel extracted")

	ext := "." + strings.ToLower(format.String())
	if format == imaging.JPEG {
		ext = ".jpg"
	}
	inputPath := filepath.Join(out, inputName+".jpg")
	outputPath := filepath.Join(out, outputName+ext)

	// A failed save is logged by the loader and doesn't stop the other one.
	inputErr := l.Save(inputPath, payload.Data)
	outputErr := l.Save(outputPath, res.Data)

	if upload {
		if err := a.upload(ctx, map[string][]byte{
			filepath.Base(inputPath):  payload.Data,
			filepath.Base(outputPath): res.Data,
		}); err != nil {
			return err
		}
	}

	if outputErr != nil {
		return outputErr
	}
	return inputErr
}

func (a *app) upload(ctx context.Context, files map[string][]byte) error {
	if a.cfg.S3Bucket == "" {
		return fmt.Errorf("--%s needs IMGCHAN_S3_BUCKET", flagUpload)
	}
	svc, err := a.newUploader()
	if err != nil {
		return err
	}
	for name, data := range files {
		location, err := svc.Upload(ctx, name, bytes.NewReader(data))
		if err != nil {
			return err
		}
		a.log.Info().Str("name", name).Str("location", location).Msg("Image uploaded")
	}
	return nil
}
