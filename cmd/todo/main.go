package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/todo/internal/config"
	"github.com/gosuda/todo/internal/domain"
	"github.com/gosuda/todo/internal/notify"
	"github.com/gosuda/todo/internal/service"
	"github.com/gosuda/todo/internal/store/memory"
	redisstore "github.com/gosuda/todo/internal/store/redis"
)

// Process exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitNotFound   = 3
)

func main() {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)

	code := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, interrupts)
	signal.Stop(interrupts)
	os.Exit(code)
}

// run executes one invocation and returns its exit code. Every invocation
// owns a fresh in-memory store.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, interrupts <-chan os.Signal) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	setupLogging(cfg.Log, stderr)

	sessionID := uuid.New()
	logger := log.With().Str("session_id", sessionID.String()).Logger()

	sinks := notify.NewRegistry()
	if cfg.Events.Log {
		sinks.Register("log", notify.NewLogSink(logger, zerolog.InfoLevel))
	}
	if cfg.Redis.Enabled() {
		pub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel, cfg.Redis.Timeout)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis task events disabled")
		} else {
			defer pub.Close()
			sinks.Register("redis", pub)
		}
	}

	opts := []service.Option{service.WithSource(sessionID), service.WithLogger(logger)}
	if len(sinks.Names()) > 0 {
		opts = append(opts, service.WithEvents(notify.New(sinks)))
	}

	a := &app{
		svc:        service.New(memory.New(), opts...),
		interrupts: interrupts,
		prompt:     cfg.Session.Prompt,
		logger:     logger,
	}

	if args == nil {
		args = []string{}
	}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", errorMessage(err))
		return exitCode(err)
	}
	return exitOK
}

func setupLogging(cfg config.LogConfig, w io.Writer) {
	zerolog.SetGlobalLevel(cfg.Level)
	if cfg.Format == config.LogFormatJSON {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
}

// exitCode maps a command error onto the process exit code.
func exitCode(err error) int {
	var uerr *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrValidation), errors.As(err, &uerr):
		return exitValidation
	case errors.Is(err, domain.ErrNotFound):
		return exitNotFound
	default:
		return exitFailure
	}
}

// errorMessage strips wrapping context from domain errors so the user sees
// only the reason.
func errorMessage(err error) string {
	var (
		verr *domain.ValidationError
		nf   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Reason
	case errors.As(err, &nf):
		return nf.Error()
	default:
		return err.Error()
	}
}
