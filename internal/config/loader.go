package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is supplied.
const DefaultPath = "config/config.yaml"

var timeOfDayPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Load reads the YAML file at path, overlays environment-sourced values, and
// validates the result. Validation reports every missing and invalid entry in
// one pass rather than failing on the first.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading configuration file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing configuration file %s: %w", path, err)
	}

	applyEnvironment(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvironment(cfg *Config) {
	cfg.Credentials.Email = strings.TrimSpace(os.Getenv("USC_EMAIL"))
	cfg.Credentials.Password = os.Getenv("USC_PASSWORD")

	if host := strings.TrimSpace(os.Getenv("SMTP_HOST")); host != "" {
		cfg.Email.Host = host
	}
	if portValue := strings.TrimSpace(os.Getenv("SMTP_PORT")); portValue != "" {
		if port, err := strconv.Atoi(portValue); err == nil && port > 0 {
			cfg.Email.Port = port
		}
	}
	cfg.Email.Username = strings.TrimSpace(os.Getenv("SMTP_USERNAME"))
	cfg.Email.Password = os.Getenv("SMTP_PASSWORD")
	cfg.Email.Recipient = strings.TrimSpace(os.Getenv("NOTIFICATION_EMAIL"))

	cfg.Telegram.BotToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.Telegram.ChatID = strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))

	cfg.Discord.WebhookURL = strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_URL"))

	cfg.BaseURL = strings.TrimSpace(os.Getenv("USC_BASE_URL"))
}

func validate(cfg Config) error {
	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	if cfg.Credentials.Email == "" {
		missing = append(missing, "USC_EMAIL")
	}
	if cfg.Credentials.Password == "" {
		missing = append(missing, "USC_PASSWORD")
	}

	for _, day := range cfg.Preferences.DaysOfWeek {
		if day < 0 || day > 6 {
			invalid = append(invalid, "preferences.days_of_week")
			break
		}
	}

	window := cfg.Preferences.TimeSlots
	if window.Start != "" || window.End != "" {
		switch {
		case !timeOfDayPattern.MatchString(window.Start) || !timeOfDayPattern.MatchString(window.End):
			invalid = append(invalid, "preferences.time_slots")
		case window.Start > window.End:
			invalid = append(invalid, "preferences.time_slots")
		}
	}

	if cfg.Preferences.MaxBookingsPerWeek <= 0 {
		invalid = append(invalid, "preferences.max_bookings_per_week")
	}
	if cfg.Monitoring.CheckInterval <= 0 {
		invalid = append(invalid, "monitoring.check_interval")
	}
	if cfg.Monitoring.DaysAhead <= 0 {
		invalid = append(invalid, "monitoring.days_ahead")
	}
	if cfg.Monitoring.MaxRetries <= 0 {
		invalid = append(invalid, "monitoring.max_retries")
	}
	if cfg.Monitoring.RetryDelay < 0 {
		invalid = append(invalid, "monitoring.retry_delay")
	}
	if cfg.Monitoring.RequestTimeout <= 0 {
		invalid = append(invalid, "monitoring.request_timeout")
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		invalid = append(invalid, "rate_limit.max_requests")
	}
	if cfg.RateLimit.Period <= 0 {
		invalid = append(invalid, "rate_limit.period")
	}

	for _, category := range cfg.Notifications.NotifyOn {
		if !validNotifyCategory(category) {
			invalid = append(invalid, "notifications.notify_on")
			break
		}
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		invalid = append(invalid, "logging.level")
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		invalid = append(invalid, "logging.format")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func validNotifyCategory(category string) bool {
	switch category {
	case "slot_found", "booking_success", "booking_failure", "error", "lifecycle":
		return true
	}
	return false
}
