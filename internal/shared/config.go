package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// Generation endpoint
	GenAIURL        string
	GenAIDeployment string
	GenTimeout      time.Duration
	GenWorkers      int

	// Sources
	FetchTimeout     time.Duration
	GoogleAPIKey     string
	GooglePlaceID    string
	TrustPilotURL    string
	PissedConsumerURL string

	// Brand voice
	BrandName        string
	BrandAltName     string
	Locale           string
	ContactURLGlobal string
	ContactURLEU     string
	ContactURLAPAC   string

	// Distribution
	Sinks      []string // subset of: xlsx, email, slack
	ExportPath string

	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPass         string
	SMTPFrom         string
	DigestRecipients []string
	DigestTopN       int

	SlackToken         string
	SlackChannel       string
	SlackSigningSecret string
	SlackInteractive   bool

	// Response cache
	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		GenAIURL:        env("GENAI_URL", ""),
		GenAIDeployment: env("GENAI_DEPLOYMENT_ID", "gpt-4o"),
		GenTimeout:      time.Duration(atoi("GENAI_TIMEOUT_SECONDS", 30)) * time.Second,
		GenWorkers:      atoi("GENAI_WORKERS", 4),

		FetchTimeout:      time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 60)) * time.Second,
		GoogleAPIKey:      env("GOOGLE_API_KEY", ""),
		GooglePlaceID:     env("GOOGLE_PLACE_ID", ""),
		TrustPilotURL:     env("TRUSTPILOT_URL", ""),
		PissedConsumerURL: env("PISSEDCONSUMER_URL", ""),

		BrandName:        env("BRAND_NAME", "APP"),
		BrandAltName:     env("BRAND_ALT_NAME", "SquareTrade"),
		Locale:           env("BRAND_LOCALE", "global"),
		ContactURLGlobal: env("CONTACT_URL_GLOBAL", "squaretrade.com/contact"),
		ContactURLEU:     env("CONTACT_URL_EU", "squaretrade.eu/contact-us"),
		ContactURLAPAC:   env("CONTACT_URL_APAC", "squaretrade.com.au/contact"),

		Sinks:      splitList(env("SINKS", "xlsx,email,slack")),
		ExportPath: env("EXPORT_PATH", "exported_reviews.xlsx"),

		SMTPHost:         env("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         env("SMTP_PORT", "587"),
		SMTPUser:         env("SMTP_USER", ""),
		SMTPPass:         env("SMTP_PASSWORD", ""),
		SMTPFrom:         env("SMTP_FROM", ""),
		DigestRecipients: splitList(env("DIGEST_RECIPIENTS", "")),
		DigestTopN:       atoi("DIGEST_TOP_N", 5),

		SlackToken:         env("SLACK_BOT_TOKEN", ""),
		SlackChannel:       env("SLACK_CHANNEL", "#market-monitoring"),
		SlackSigningSecret: env("SLACK_SIGNING_SECRET", ""),
		SlackInteractive:   env("SLACK_INTERACTIVE", "true") == "true",

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 86400)) * time.Second,
	}
	if c.GenAIURL == "" {
		log.Warn().Msg("GENAI_URL is empty; all responses will use the fallback text")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
