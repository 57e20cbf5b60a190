package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string
	LogLevel    string
	// Upstream forms backend
	FormsAPIBaseURL string
	FormRoutes      map[string]string // form type -> backend route override
	// Form instance lifecycle
	FormResetAfter      time.Duration // auto-dismiss of success/error outcome
	FormInstanceMaxIdle time.Duration
	SuccessRedirects    map[string]string // form type -> follow-up page
	// Submission log (optional)
	DBUrl string
	// SMTP Configuration (lead notifications)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	LeadEmailTo   string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitFormThreshold int
	UploadLimitPerMinute   int
	UploadLimitPerDay      int
	// Resume scanning and archive
	ClamAVAddress       string
	ScanFailClosed      bool // reject resumes when the scanner is unreachable
	ResumeArchiveBucket string
	// Lead events
	NATSUrl string
}

func LoadConfig() (*Config, error) {
	// Load .env when present; production injects the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		// Strip the trailing slash so base + "/contact" never doubles up
		FormsAPIBaseURL: strings.TrimRight(getEnv("FORMS_API_BASE_URL", ""), "/"),
		FormRoutes: compact(map[string]string{
			"contact": getEnv("CONTACT_ROUTE", ""),
			"job":     getEnv("JOB_APPLICATION_ROUTE", ""),
			"program": getEnv("PROGRAM_APPLICATION_ROUTE", ""),
			"quote":   getEnv("QUOTE_REQUEST_ROUTE", ""),
		}),
		FormResetAfter:      time.Duration(getEnvInt("FORM_RESET_SECONDS", 5)) * time.Second,
		FormInstanceMaxIdle: time.Duration(getEnvInt("FORM_INSTANCE_IDLE_MINUTES", 30)) * time.Minute,
		SuccessRedirects: compact(map[string]string{
			"contact": getEnv("CONTACT_SUCCESS_REDIRECT", ""),
			"job":     getEnv("JOB_SUCCESS_REDIRECT", ""),
			"program": getEnv("PROGRAM_SUCCESS_REDIRECT", ""),
			"quote":   getEnv("QUOTE_SUCCESS_REDIRECT", ""),
		}),
		DBUrl: getEnv("DATABASE_URL", ""),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", ""),
		LeadEmailTo:   getEnv("LEAD_EMAIL_TO", ""),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitFormThreshold: getEnvInt("RATE_LIMIT_FORM_THRESHOLD", 10),
		UploadLimitPerMinute:   getEnvInt("UPLOAD_LIMIT_PER_MINUTE", 5),
		UploadLimitPerDay:      getEnvInt("UPLOAD_LIMIT_PER_DAY", 20),
		// Resume scanning and archive
		ClamAVAddress:       getEnv("CLAMAV_ADDRESS", ""),
		ScanFailClosed:      getEnvBool("CLAMAV_FAIL_CLOSED", true),
		ResumeArchiveBucket: getEnv("RESUME_ARCHIVE_BUCKET", ""),
		NATSUrl:             getEnv("NATS_URL", ""),
	}

	if cfg.FormsAPIBaseURL == "" {
		log.Println("WARNING: FORMS_API_BASE_URL is missing. Form submissions will fail.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// compact drops empty values so lookups fall back to defaults
func compact(m map[string]string) map[string]string {
	for k, v := range m {
		if strings.TrimSpace(v) == "" {
			delete(m, k)
		}
	}
	return m
}
