// Command tripdesk is the terminal client for the travel booking API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tripdesk/internal/account"
	"tripdesk/internal/auth"
	"tripdesk/internal/bookings"
	"tripdesk/internal/gateway"
	"tripdesk/internal/notifications"
	"tripdesk/internal/search"
	"tripdesk/internal/shared/config"
	"tripdesk/pkg/credstore"
	"tripdesk/pkg/logger"
)

var Version = "dev"

// app wires the client for one command invocation
type app struct {
	cfg     *config.Config
	out     io.Writer
	logger  *logger.Logger
	store   credstore.Store
	auth    *auth.Context
	gw      *gateway.Client
	toaster *notifications.Toaster

	account   *account.Service
	flights   *search.Controller
	hotels    *search.Controller
	bookings  *bookings.Aggregator
	booker    *bookings.Booker
	formatter *bookings.Formatter

	publisher *notifications.SessionEventPublisher
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer, log *logger.Logger) (*app, error) {
	store, err := credstore.Open(ctx, credstore.Options{
		Driver:      cfg.Credentials.Driver,
		BadgerPath:  cfg.Credentials.BadgerPath,
		RedisAddr:   cfg.Redis.Addr,
		RedisPass:   cfg.Redis.Password,
		RedisDB:     cfg.Redis.DB,
		RedisPrefix: cfg.Credentials.RedisPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	a := &app{cfg: cfg, out: out, logger: log, store: store}

	// A rejected credential sends the traveler back to the sign-in screen
	a.auth = auth.NewContext(store, func() {
		fmt.Fprintln(out, "Your session has expired. Run `tripdesk login` to sign in again.")
	}, log)
	a.gw = gateway.New(cfg.API.BaseURL, a.auth, log)
	a.toaster = notifications.NewToaster(notifications.NotifierFunc(a.printNotice))

	a.account = account.NewService(a.gw, a.auth, log)
	a.flights = search.NewFlightController(a.gw, log)
	a.hotels = search.NewHotelController(a.gw, log)
	a.bookings = bookings.NewAggregator(a.gw, a.toaster, log)
	a.booker = bookings.NewBooker(a.gw, a.toaster, log)
	a.formatter = bookings.NewFormatter(cfg.API.Locale, cfg.Location())

	a.flights.Subscribe(a.toaster)
	a.hotels.Subscribe(a.toaster)

	if cfg.Kafka.Enabled {
		producerCfg := notifications.DefaultKafkaProducerConfig()
		producerCfg.Brokers = cfg.Kafka.Brokers
		producerCfg.Topic = cfg.Kafka.Topic
		publisher, err := notifications.NewSessionEventPublisher(producerCfg, log)
		if err != nil {
			log.Warn("Session events disabled", slog.Any("error", err))
		} else {
			a.publisher = publisher
			a.flights.Subscribe(publisher)
			a.hotels.Subscribe(publisher)
		}
	}

	return a, nil
}

func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Failed to close session event publisher", slog.Any("error", err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close credential store", slog.Any("error", err))
	}
}

func (a *app) printNotice(_ context.Context, n notifications.Notice) {
	mark := "i"
	switch n.Level {
	case notifications.LevelSuccess:
		mark = "✓"
	case notifications.LevelError:
		mark = "✗"
	}
	fmt.Fprintf(a.out, "%s %s\n", mark, n.Message)
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// diagnostics go to stderr so command output stays clean
	appLogger := logger.NewWithOptions(os.Stderr, cfg.LogLevel, cfg.IsProduction())
	logger.SetDefault(appLogger)

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, cfg, os.Args[1], os.Args[2:], os.Stdout, appLogger)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, name string, args []string, out io.Writer, log *logger.Logger) int {
	cmd, ok := commands[name]
	if !ok {
		if name == "help" || name == "-h" || name == "--help" {
			usage(out)
			return 0
		}
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		usage(os.Stderr)
		return 2
	}

	a, err := newApp(ctx, cfg, out, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer a.Close()

	if err := cmd.run(ctx, a, args); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		if errors.Is(err, errReported) {
			return 1
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
