package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Webhooks holds one Discord webhook URL per routed channel.
type Webhooks struct {
	General     string
	Business    string
	Education   string
	Engineering string
	Finance     string
	IT          string
	Law         string
}

type Config struct {
	Port     string
	DBDriver string
	DBDSN    string
	RedisURL string

	MondayAPIKey   string
	MondayBoardID  string
	MondayAPIURL   string
	MondayFormURL  string
	MondayTimeout  time.Duration
	MondayPageSize int

	GoogleClientID        string
	GoogleClientSecret    string
	GoogleCredentialsFile string
	CalendarTimezone      string

	BackendURL  string
	FrontendURL string
	CORSOrigins []string

	AdminEmail        string
	AdminPassword     string
	AdminAllowList    []string
	AdminTokenJSON    string
	SessionSecret     string
	RequireAdminToken bool
	CredentialTTL     time.Duration

	SnapshotPath      string
	Webhooks          Webhooks
	SeenFile          string
	ForwarderPageSize int
}

var defaults = map[string]any{
	"PORT":                     "5050",
	"DB_DRIVER":                "sqlite",
	"DB_DSN":                   "admin_data.db",
	"MONDAY_API_URL":           "https://api.monday.com/v2",
	"MONDAY_TIMEOUT":           "15s",
	"MONDAY_PAGE_SIZE":         50,
	"GOOGLE_CALENDAR_TIMEZONE": "America/New_York",
	"BACKEND_URL":              "http://localhost:5050",
	"FRONTEND_URL":             "http://localhost:5173",
	"REQUIRE_ADMIN_TOKEN":      false,
	"CREDENTIAL_TTL":           "720h",
	"SEEN_FILE":                "seen_items.json",
	"FORWARDER_PAGE_SIZE":      100,
}

// Load reads an optional .env file and the process environment; the
// environment wins when both define a key.
func Load() Config {
	return LoadFrom(".env")
}

func LoadFrom(envFile string) Config {
	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Printf("config: no %s loaded (%v), using environment", envFile, err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		Port:     v.GetString("PORT"),
		DBDriver: strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:    v.GetString("DB_DSN"),
		RedisURL: v.GetString("REDIS_URL"),

		MondayAPIKey:   v.GetString("MONDAY_API_KEY"),
		MondayBoardID:  v.GetString("MONDAY_BOARD_ID"),
		MondayAPIURL:   v.GetString("MONDAY_API_URL"),
		MondayFormURL:  v.GetString("MONDAY_FORM_URL"),
		MondayTimeout:  v.GetDuration("MONDAY_TIMEOUT"),
		MondayPageSize: v.GetInt("MONDAY_PAGE_SIZE"),

		GoogleClientID:        v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:    v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleCredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		CalendarTimezone:      v.GetString("GOOGLE_CALENDAR_TIMEZONE"),

		BackendURL:  strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
		FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		AdminAllowList:    splitList(strings.ToLower(v.GetString("ADMIN_ALLOWLIST"))),
		AdminTokenJSON:    v.GetString("ADMIN_TOKEN_JSON"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		RequireAdminToken: v.GetBool("REQUIRE_ADMIN_TOKEN"),
		CredentialTTL:     v.GetDuration("CREDENTIAL_TTL"),

		SnapshotPath: v.GetString("SNAPSHOT_PATH"),
		Webhooks: Webhooks{
			General:     v.GetString("DISCORD_GENERAL_WEBHOOK"),
			Business:    v.GetString("DISCORD_BUSINESS_WEBHOOK"),
			Education:   v.GetString("DISCORD_EDUCATION_WEBHOOK"),
			Engineering: v.GetString("DISCORD_ENGINEERING_WEBHOOK"),
			Finance:     v.GetString("DISCORD_FINANCE_WEBHOOK"),
			IT:          v.GetString("DISCORD_IT_WEBHOOK"),
			Law:         v.GetString("DISCORD_LAW_WEBHOOK"),
		},
		SeenFile:          v.GetString("SEEN_FILE"),
		ForwarderPageSize: v.GetInt("FORWARDER_PAGE_SIZE"),
	}

	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{cfg.FrontendURL}
	}
	if cfg.SessionSecret == "" {
		log.Printf("config: SESSION_SECRET not set, admin tokens will not survive a restart")
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsAdminAllowed reports whether email is on the OAuth admin allow-list.
func (c Config) IsAdminAllowed(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, allowed := range c.AdminAllowList {
		if allowed == email {
			return true
		}
	}
	return c.AdminEmail != "" && strings.EqualFold(c.AdminEmail, email)
}
