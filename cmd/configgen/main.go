package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/danmuck/nsmclient/internal/config"
	"github.com/danmuck/nsmclient/internal/logging"
	"github.com/spf13/pflag"
)

const defaultPath = "cmd/nsm-notes/config.toml"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("configgen", pflag.ContinueOnError)
	kind := fs.String("kind", config.KindHost, "config kind: host")
	output := fs.StringP("output", "o", defaultPath, "output path for config template")
	validate := fs.Bool("validate", false, "validate an existing config file")
	input := fs.StringP("input", "i", defaultPath, "config path for validation")
	force := fs.Bool("force", false, "overwrite existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	logging.ConfigureRuntime()
	logger := logging.Component("configgen")

	if _, err := config.Template(*kind); err != nil {
		return err
	}
	if *validate {
		if _, err := config.LoadHostConfig(*input); err != nil {
			return err
		}
		logger.Info().Str("kind", *kind).Str("path", *input).Msg("validated config")
		return nil
	}
	if err := config.WriteTemplate(*output, *kind, *force); err != nil {
		return err
	}
	logger.Info().Str("kind", *kind).Str("path", *output).Msg("wrote config template")
	return nil
}
