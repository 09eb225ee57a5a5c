//nolint:mnd //no magic number
package config

import (
	"log/slog"
	"strings"

	"github.com/xdoubleu/essentia/v2/pkg/config"
)

type Config struct {
	Env           string
	Port          int
	Throttle      bool
	WebURL        string
	SentryDsn     string
	SampleRate    float64
	AccessExpiry  string
	RefreshExpiry string
	DBDsn         string
	Release       string

	SupabaseUserID  string
	SupabaseProjRef string
	SupabaseAPIKey  string

	// Calendar aggregation settings. CalendarBaseURL selects proxy mode when
	// non-empty; the remaining fields drive the local pipeline.
	CalendarBaseURL          string
	CalendarDefaultCalendars string
	CalendarMaxRangeDays     int
	CalendarCacheTTLSeconds  int
	CalendarAliases          string
	CalendarIDs              map[string]string
	CalendarCredentialFiles  map[string]string
	CalendarCredentialJSONs  map[string]string
}

func New(logger *slog.Logger) Config {
	var cfg Config

	parser := config.New(logger)

	cfg.Env = parser.EnvStr("ENV", config.ProdEnv)
	cfg.Port = parser.EnvInt("PORT", 8000)
	cfg.Throttle = parser.EnvBool("THROTTLE", true)
	cfg.WebURL = parser.EnvStr("WEB_URL", "http://localhost:8000")
	cfg.SentryDsn = parser.EnvStr("SENTRY_DSN", "")
	cfg.SampleRate = parser.EnvFloat("SAMPLE_RATE", 1.0)
	cfg.AccessExpiry = parser.EnvStr("ACCESS_EXPIRY", "1h")
	cfg.RefreshExpiry = parser.EnvStr("REFRESH_EXPIRY", "7d")
	cfg.DBDsn = parser.EnvStr("DB_DSN", "postgres://postgres@localhost/postgres")
	cfg.Release = parser.EnvStr("RELEASE", config.DevEnv)

	cfg.SupabaseUserID = parser.EnvStr("SUPABASE_USER_ID", "")
	cfg.SupabaseProjRef = parser.EnvStr("SUPABASE_PROJ_REF", "")
	cfg.SupabaseAPIKey = parser.EnvStr("SUPABASE_API_KEY", "")

	cfg.CalendarBaseURL = parser.EnvStr("CALENDAR_BASE_URL", "")
	cfg.CalendarDefaultCalendars = parser.EnvStr(
		"CALENDAR_DEFAULT_CALENDARS",
		"adrien,clement",
	)
	cfg.CalendarMaxRangeDays = parser.EnvInt("CALENDAR_MAX_RANGE_DAYS", 90)
	cfg.CalendarCacheTTLSeconds = parser.EnvInt("CALENDAR_CACHE_TTL_SECONDS", 0)
	cfg.CalendarAliases = parser.EnvStr("CALENDAR_ALIASES", "adrien,clement")

	cfg.CalendarIDs = map[string]string{}
	cfg.CalendarCredentialFiles = map[string]string{}
	cfg.CalendarCredentialJSONs = map[string]string{}
	for _, alias := range strings.Split(cfg.CalendarAliases, ",") {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" {
			continue
		}

		key := strings.ToUpper(alias)
		cfg.CalendarIDs[alias] = parser.EnvStr("CALENDAR_ID_"+key, "")
		cfg.CalendarCredentialFiles[alias] = parser.EnvStr(
			"GOOGLE_SA_"+key+"_FILE",
			"",
		)
		cfg.CalendarCredentialJSONs[alias] = parser.EnvStr(
			"GOOGLE_SA_"+key+"_JSON",
			"",
		)
	}

	return cfg
}
