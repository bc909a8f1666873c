// nsm-notes is a small host program that keeps notes per session. Run it
// from a session server, or with --no-session to edit the notes file in the
// working directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/danmuck/nsmclient/internal/client"
	"github.com/danmuck/nsmclient/internal/config"
	"github.com/danmuck/nsmclient/internal/logging"
	"github.com/danmuck/nsmclient/internal/observability"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	noSession  bool
	optionalUI bool
	logLevel   string
	imports    []string
	notes      []string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "nsm-notes: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("nsm-notes", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "host config file (TOML)")
	fs.BoolVar(&opts.noSession, "no-session", false, "run without a session server")
	fs.BoolVar(&opts.optionalUI, "optional-gui", false, "advertise an optional gui")
	fs.StringVar(&opts.logLevel, "log-level", "", "override log level (debug|info|warn|error)")
	fs.StringArrayVar(&opts.imports, "import", nil, "link a file into the session (repeatable)")
	fs.StringArrayVar(&opts.notes, "note", nil, "append a note (repeatable)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return opts, nil
}

func loadHostConfig(opts options) (config.HostConfig, error) {
	cfg := config.DefaultHostConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadHostConfig(opts.configPath)
		if err != nil {
			return config.HostConfig{}, err
		}
		cfg = loaded
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	logging.ConfigureRuntime()
	cfg, err := loadHostConfig(opts)
	if err != nil {
		return err
	}
	if !logging.SetLevel(cfg.LogLevel) {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	logger := logging.Component("nsm-notes")

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c client.Client
	notes := newNotesHost(cfg.StateFile, logger, cancel)
	var host client.Host = notes
	if opts.optionalUI {
		host = &guiNotesHost{notesHost: notes, visible: func(v bool) {
			if c == nil {
				return
			}
			if err := c.AnnounceGUIVisibility(v); err != nil {
				logger.Warn().Err(err).Msg("gui visibility announce failed")
			}
		}}
	}

	c, err = connect(cfg, opts, host, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := applyEdits(c, notes, opts, logger); err != nil {
		return err
	}
	if !c.Managed() {
		return notes.Save(c.Session())
	}
	return c.Run(ctx, cfg.PollInterval)
}

// connect attaches to the session server, or opens the working directory
// when there is none.
func connect(cfg config.HostConfig, opts options, host client.Host, logger zerolog.Logger) (client.Client, error) {
	if !opts.noSession {
		c, err := client.New(cfg.ClientConfig(), host)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, client.ErrServerNotRunning) {
			return nil, err
		}
		logger.Info().Msg("no session server, using working directory")
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	local := client.Session{Path: wd, Name: filepath.Base(wd)}
	if err := host.Open(local); err != nil {
		return nil, err
	}
	return unmanaged{NullClient: client.NewNullClient(nil), session: local}, nil
}

// unmanaged reports the working directory as the session.
type unmanaged struct {
	*client.NullClient
	session client.Session
}

func (u unmanaged) Session() client.Session {
	return u.session
}

func applyEdits(c client.Client, notes *notesHost, opts options, logger zerolog.Logger) error {
	for _, src := range opts.imports {
		linked, err := c.ImportResource(src)
		if err != nil {
			return fmt.Errorf("import %s: %w", src, err)
		}
		notes.addResource(linked)
		logger.Info().Str("source", src).Str("linked", linked).Msg("resource imported")
	}
	for _, n := range opts.notes {
		notes.addNote(n)
	}
	if len(opts.imports) == 0 && len(opts.notes) == 0 {
		return nil
	}
	return c.AnnounceSaveStatus(false)
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics listener stopped")
	}
}
