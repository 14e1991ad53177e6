// seatplan is the layout engine's command line companion. It talks to
// the same storage backends the embedded engine uses, so layouts can be
// seeded, exported, imported and wiped outside the editor, and a full
// scripted editing session can be run against a backend for smoke
// testing a deployment.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuekit/seatplan/internal/config"
	"github.com/venuekit/seatplan/internal/logging"
	"github.com/venuekit/seatplan/internal/storage"
	"github.com/venuekit/seatplan/internal/telemetry"
)

// Version can be set at build time via ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

var sessionStart = time.Now()

func main() {
	if err := config.Load("."); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	gelfAddress := ""
	if config.GetBool("graylog.enabled") {
		gelfAddress = config.GetString("graylog.address")
	}
	logger, cleanup, err := logging.Setup(logging.Config{
		Level:       config.GetString("logLevel"),
		Pretty:      config.GetBool("prettyLog"),
		LogsDir:     config.GetString("logsDir"),
		GelfAddress: gelfAddress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	logger.Info().
		Str("version", Version).
		Str("buildDate", BuildDate).
		Msg("seatplan starting")

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(logger, args); err != nil {
		logger.Error().Err(err).Msg("command failed")
		cleanup()
		os.Exit(1)
	}
}

func run(logger zerolog.Logger, args []string) error {
	storageCfg, err := config.Storage()
	if err != nil {
		return fmt.Errorf("reading storage config: %w", err)
	}

	backend, err := storage.NewBackend(storageCfg, logger)
	if err != nil {
		return fmt.Errorf("creating storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing storage backend")
		}
	}()
	logger.Info().Str("type", storageCfg.Type).Msg("Storage backend ready")

	metrics := telemetry.NewManager(logger, filepath.Join(config.GetString("logsDir"), "metrics_backup.gz"))
	if config.GetBool("influx.enabled") {
		if err := metrics.Connect(); err != nil {
			logger.Warn().Err(err).Msg("Session metrics disabled")
			metrics = nil
		} else {
			defer metrics.Close()
		}
	} else {
		metrics = nil
	}

	ctx := context.Background()

	switch strings.ToLower(args[0]) {
	case "seed":
		if len(args) < 2 {
			return fmt.Errorf("usage: seatplan seed <venueID> [rows] [seatsPerRow]")
		}
		return seedVenue(ctx, backend, logger, args[1], args[2:])

	case "export":
		if len(args) < 2 {
			return fmt.Errorf("usage: seatplan export <venueID>")
		}
		return exportVenue(ctx, backend, logger, args[1])

	case "import":
		if len(args) < 2 {
			return fmt.Errorf("usage: seatplan import <path>")
		}
		return importVenue(ctx, backend, logger, args[1])

	case "wipe":
		if len(args) < 2 {
			return fmt.Errorf("usage: seatplan wipe <venueID>")
		}
		return wipeVenue(ctx, backend, logger, args[1])

	case "session":
		if len(args) < 2 {
			return fmt.Errorf("usage: seatplan session <venueID>")
		}
		return runScriptedSession(ctx, backend, logger, metrics, args[1])

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `seatplan <command> [args]

Commands:
  seed <venueID> [rows] [seatsPerRow]   create a demo layout in the backend
  export <venueID>                      write a venue layout to a JSON file
  import <path>                         load a layout export into the backend
  wipe <venueID>                        delete all markers for a venue
  session <venueID>                     run a scripted editing session`)
}
