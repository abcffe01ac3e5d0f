// Package config loads the bot configuration from a YAML file and the
// process environment. The file carries policy (preferences, monitoring,
// rate limits, notification switches, logging); secrets come exclusively
// from environment variables.
package config

import "time"

// TimeWindow bounds the accepted class start time as inclusive "HH:MM" values.
type TimeWindow struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Preferences is the user's matching policy.
type Preferences struct {
	Locations          []string   `yaml:"locations"`
	Activities         []string   `yaml:"activities"`
	DaysOfWeek         []int      `yaml:"days_of_week"`
	TimeSlots          TimeWindow `yaml:"time_slots"`
	AutoBook           bool       `yaml:"auto_book"`
	MaxBookingsPerWeek int        `yaml:"max_bookings_per_week"`
}

// Monitoring controls cycle cadence and the booking retry policy.
type Monitoring struct {
	// CheckInterval is the cycle period in minutes.
	CheckInterval int `yaml:"check_interval"`
	// DaysAhead is the fetch window horizon in days.
	DaysAhead int `yaml:"days_ahead"`
	// MaxRetries bounds reservation attempts per slot.
	MaxRetries int `yaml:"max_retries"`
	// RetryDelay is the fixed pause between attempts, in seconds.
	RetryDelay int `yaml:"retry_delay"`
	// RequestTimeout bounds each platform HTTP call, in seconds.
	RequestTimeout int `yaml:"request_timeout"`
}

// RateLimit caps outbound platform calls shared across catalog and executor.
type RateLimit struct {
	MaxRequests int `yaml:"max_requests"`
	// Period is the replenishment window in seconds.
	Period int `yaml:"period"`
}

// Channel toggles one notification transport.
type Channel struct {
	Enabled bool `yaml:"enabled"`
}

// Notifications selects transports and the event categories that notify.
type Notifications struct {
	Email    Channel  `yaml:"email"`
	Telegram Channel  `yaml:"telegram"`
	Discord  Channel  `yaml:"discord"`
	NotifyOn []string `yaml:"notify_on"`
}

// Logging controls process-level log output.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Credentials is the platform account, sourced from USC_EMAIL / USC_PASSWORD.
type Credentials struct {
	Email    string
	Password string
}

// EmailSettings carries SMTP submission parameters, sourced from SMTP_* and
// NOTIFICATION_EMAIL.
type EmailSettings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Recipient string
}

// TelegramSettings carries the bot credentials, sourced from
// TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID.
type TelegramSettings struct {
	BotToken string
	ChatID   string
}

// DiscordSettings carries the webhook target, sourced from DISCORD_WEBHOOK_URL.
type DiscordSettings struct {
	WebhookURL string
}

// Config is the complete runtime configuration.
type Config struct {
	Preferences   Preferences   `yaml:"preferences"`
	Monitoring    Monitoring    `yaml:"monitoring"`
	RateLimit     RateLimit     `yaml:"rate_limit"`
	Notifications Notifications `yaml:"notifications"`
	Logging       Logging       `yaml:"logging"`

	// Environment-sourced values, never present in the YAML file.
	Credentials Credentials      `yaml:"-"`
	Email       EmailSettings    `yaml:"-"`
	Telegram    TelegramSettings `yaml:"-"`
	Discord     DiscordSettings  `yaml:"-"`
	BaseURL     string           `yaml:"-"`
}

// CheckIntervalDuration returns the cycle period as a duration.
func (m Monitoring) CheckIntervalDuration() time.Duration {
	return time.Duration(m.CheckInterval) * time.Minute
}

// RetryDelayDuration returns the retry pause as a duration.
func (m Monitoring) RetryDelayDuration() time.Duration {
	return time.Duration(m.RetryDelay) * time.Second
}

// RequestTimeoutDuration returns the per-call HTTP timeout as a duration.
func (m Monitoring) RequestTimeoutDuration() time.Duration {
	return time.Duration(m.RequestTimeout) * time.Second
}

// PeriodDuration returns the rate limit window as a duration.
func (r RateLimit) PeriodDuration() time.Duration {
	return time.Duration(r.Period) * time.Second
}

// Default returns the configuration baseline applied before the YAML file and
// environment are consulted.
func Default() Config {
	return Config{
		Preferences: Preferences{
			AutoBook:           true,
			MaxBookingsPerWeek: 3,
		},
		Monitoring: Monitoring{
			CheckInterval:  5,
			DaysAhead:      7,
			MaxRetries:     3,
			RetryDelay:     5,
			RequestTimeout: 30,
		},
		RateLimit: RateLimit{
			MaxRequests: 10,
			Period:      60,
		},
		Notifications: Notifications{
			NotifyOn: []string{"slot_found", "booking_success", "booking_failure", "error"},
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Email: EmailSettings{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}
}
