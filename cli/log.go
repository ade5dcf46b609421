package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	flagLogLevel  = "loglevel"
	flagLogFormat = "logformat"
)

func registerLoggingFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(flagLogLevel, "info", "set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String(flagLogFormat, "text", "set the log format (text, json)")
}

func newLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cmd.Flag(flagLogLevel).Value.String())
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}

	var out io.Writer
	switch format := cmd.Flag(flagLogFormat).Value.String(); format {
	case "text":
		out = zerolog.ConsoleWriter{Out: cmd.OutOrStdout(), TimeFormat: "15:04:05"}
	case "json":
		out = cmd.OutOrStdout()
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format: %s", format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
