// nova renders OBJ and GLTF models with a CPU rasterizer, either to a PNG
// file or interactively in the terminal.
//
// Usage:
//
//	nova render model.obj -o frame.png
//	nova view model.glb --watch
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	logFile    string

	base   Config    // Defaults merged with the config file
	logOut io.Closer // Open --log-file, if any
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "nova",
		Short:        "Software 3D rasterizer for OBJ and GLTF models",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "TOML scene file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "write logs to a file instead of stderr")

	root.AddCommand(newRenderCmd(opts), newViewCmd(opts))
	return root
}

// load reads the config file and sets up the default logger.
func (o *options) load(stderr io.Writer) error {
	o.base = DefaultConfig()
	if o.configPath != "" {
		cfg, err := LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		o.base = cfg
	}
	if o.logLevel != "" {
		o.base.LogLevel = o.logLevel
	}
	if o.logFile != "" {
		o.base.LogFile = o.logFile
	}
	closer, err := setupLogging(o.base, stderr)
	if err != nil {
		return err
	}
	o.logOut = closer
	return nil
}

// close releases the log file opened by load.
func (o *options) close() error {
	if o.logOut == nil {
		return nil
	}
	err := o.logOut.Close()
	o.logOut = nil
	return err
}

// setupLogging installs the default logger. When cfg.LogFile is set the
// opened file is returned for the caller to close.
func setupLogging(cfg Config, stderr io.Writer) (io.Closer, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var (
		out    = stderr
		closer io.Closer
	)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "nova",
		Level:           level,
	})
	log.SetDefault(logger)
	return closer, nil
}
