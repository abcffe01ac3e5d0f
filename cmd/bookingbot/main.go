package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/example/usc-booking-bot/internal/booking"
	"github.com/example/usc-booking-bot/internal/config"
	"github.com/example/usc-booking-bot/internal/logging"
	"github.com/example/usc-booking-bot/internal/notify"
	"github.com/example/usc-booking-bot/internal/platform"
	"github.com/example/usc-booking-bot/internal/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.StringP("config", "c", config.DefaultPath, "path to the YAML configuration file")
	pflag.Parse()

	// Secrets come from the environment; a local .env is a convenience, not
	// a requirement.
	_ = godotenv.Load()

	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		return 1
	}

	logger, logCloser, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		bootstrap.Error("failed to configure logging", "error", err)
		return 1
	}
	if logCloser != nil {
		defer func() {
			if cerr := logCloser.Close(); cerr != nil {
				bootstrap.Error("failed to close log file", "error", cerr)
			}
		}()
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := platform.NewClient(cfg.BaseURL, cfg.Monitoring.RequestTimeoutDuration(), logger)
	session := platform.NewSession(client, cfg.Credentials.Email, cfg.Credentials.Password, logger)
	limiter := booking.NewLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.PeriodDuration())

	prefs := booking.Preferences{
		Locations:           cfg.Preferences.Locations,
		Activities:          cfg.Preferences.Activities,
		DaysOfWeek:          cfg.Preferences.DaysOfWeek,
		Window:              booking.TimeWindow{Start: cfg.Preferences.TimeSlots.Start, End: cfg.Preferences.TimeSlots.End},
		AutoBook:            cfg.Preferences.AutoBook,
		MaxBookingsPerCycle: cfg.Preferences.MaxBookingsPerWeek,
	}

	catalog := booking.NewCatalog(
		newSlotFetcherAdapter(client, session),
		limiter,
		prefs,
		cfg.Monitoring.DaysAhead,
		time.Now,
		logger,
	)
	executor := booking.NewExecutor(
		newSlotBookerAdapter(client, session),
		session,
		limiter,
		cfg.Monitoring.MaxRetries,
		cfg.Monitoring.RetryDelayDuration(),
		logger,
	)

	fanout := notify.NewFanout(logger)
	if cfg.Notifications.Email.Enabled {
		fanout.Add(notify.NewEmailNotifier(
			cfg.Email.Host,
			cfg.Email.Port,
			cfg.Email.Username,
			cfg.Email.Password,
			cfg.Email.Recipient,
			logger,
		))
		logger.Info("email notifications enabled")
	}
	if cfg.Notifications.Telegram.Enabled {
		telegram, terr := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if terr != nil {
			logger.Error("telegram notifications unavailable", "error", terr)
		} else {
			fanout.Add(telegram)
			logger.Info("telegram notifications enabled")
		}
	}
	if cfg.Notifications.Discord.Enabled {
		fanout.Add(notify.NewWebhookNotifier(cfg.Discord.WebhookURL, logger))
		logger.Info("discord notifications enabled")
	}

	sched := scheduler.New(session, catalog, executor, fanout, scheduler.Config{
		CheckInterval:       cfg.Monitoring.CheckIntervalDuration(),
		AutoBook:            cfg.Preferences.AutoBook,
		MaxBookingsPerCycle: cfg.Preferences.MaxBookingsPerWeek,
		NotifyOn:            notifyCategories(cfg.Notifications.NotifyOn),
	}, time.Now, logger)

	logger.Info("starting booking bot")
	if err := sched.Run(ctx); err != nil {
		logger.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func notifyCategories(names []string) []notify.Category {
	categories := make([]notify.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, notify.Category(name))
	}
	return categories
}

// slotFetcherAdapter maps the platform client onto the catalog's fetcher
// interface, translating wire records and error sentinels into the booking
// domain.
type slotFetcherAdapter struct {
	client  *platform.Client
	session *platform.Session
}

func newSlotFetcherAdapter(client *platform.Client, session *platform.Session) *slotFetcherAdapter {
	return &slotFetcherAdapter{client: client, session: session}
}

func (a *slotFetcherAdapter) FetchSlots(ctx context.Context, start, end time.Time) ([]booking.SlotRecord, error) {
	records, err := a.client.FetchClasses(ctx, start, end, a.session.Headers())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", translateSentinel(err, booking.ErrFetchFailed), err)
	}
	converted := make([]booking.SlotRecord, 0, len(records))
	for _, record := range records {
		converted = append(converted, booking.SlotRecord{
			ID:             record.ID,
			Name:           record.Name,
			Location:       record.Location,
			Activity:       record.Activity,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			AvailableSlots: record.AvailableSlots,
			TotalSlots:     record.TotalSlots,
			Instructor:     record.Instructor,
		})
	}
	return converted, nil
}

// slotBookerAdapter maps the platform client onto the executor's booker
// interface.
type slotBookerAdapter struct {
	client  *platform.Client
	session *platform.Session
}

func newSlotBookerAdapter(client *platform.Client, session *platform.Session) *slotBookerAdapter {
	return &slotBookerAdapter{client: client, session: session}
}

func (a *slotBookerAdapter) BookSlot(ctx context.Context, slotID, clientReference string) error {
	if err := a.client.BookClass(ctx, slotID, clientReference, a.session.Headers()); err != nil {
		return fmt.Errorf("%w: %v", translateSentinel(err, booking.ErrBookingFailed), err)
	}
	return nil
}

// translateSentinel picks the booking-domain sentinel corresponding to a
// platform error.
func translateSentinel(err error, fallback error) error {
	switch {
	case errors.Is(err, platform.ErrTokenExpired):
		return booking.ErrTokenExpired
	case errors.Is(err, platform.ErrAuthentication):
		return booking.ErrAuthentication
	}
	return fallback
}
