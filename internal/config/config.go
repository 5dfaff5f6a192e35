package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

// Config stores runtime configuration for the service and the CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           logging.Level
	MetricsEnabled     bool
	SwaggerEnabled     bool
	PprofEnabled       bool
	PprofAddr          string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	GoogleServiceAccountEmail string
	GooglePrivateKey          string
	SheetsEndpoint            string
	SheetsTimeout             time.Duration
	SheetsMaxRetries          int
	SheetsRetryBackoff        time.Duration
	SheetsMaxRows             int
	SheetsLastColumn          string
	SheetsCircuitEnabled      bool
	SheetsCircuitFailureCount int
	SheetsCircuitOpenTimeout  time.Duration
	SheetsCircuitHalfOpenMax  int

	// Division name -> spreadsheet id. Power rankings fall back to the
	// standings map when their own map is not set.
	StandingsSpreadsheetIDs     map[string]string
	PowerRankingsSpreadsheetIDs map[string]string

	StandingsCacheTTL     time.Duration
	PowerRankingsCacheTTL time.Duration
	RefreshWorkers        int
	RefreshTimeout        time.Duration
	// FetchTimeout bounds the synchronous fetch behind a cache miss. It must
	// be shorter than WriteTimeout so the caller still gets a response body.
	FetchTimeout    time.Duration
	RefreshDedupe   bool
	WarmOnStart     bool
	WarmConcurrency int
	// WarmSchedule is a standard 5-field cron spec; empty disables re-warming.
	WarmSchedule string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	sheetsTimeout, err := getEnvAsDuration("SHEETS_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	sheetsMaxRetries, err := getEnvAsInt("SHEETS_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_MAX_RETRIES: %w", err)
	}
	if sheetsMaxRetries < 0 {
		return Config{}, fmt.Errorf("SHEETS_MAX_RETRIES must be >= 0")
	}
	sheetsRetryBackoff, err := getEnvAsDuration("SHEETS_RETRY_BACKOFF", time.Second)
	if err != nil {
		return Config{}, err
	}
	sheetsMaxRows, err := getEnvAsInt("SHEETS_MAX_ROWS", 120)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_MAX_ROWS: %w", err)
	}
	if sheetsMaxRows < 1 {
		return Config{}, fmt.Errorf("SHEETS_MAX_ROWS must be >= 1")
	}
	sheetsLastColumn := strings.ToUpper(strings.TrimSpace(getEnv("SHEETS_LAST_COLUMN", "Z")))
	if !isColumnName(sheetsLastColumn) {
		return Config{}, fmt.Errorf("invalid SHEETS_LAST_COLUMN %q: expected letters A-Z", sheetsLastColumn)
	}
	sheetsCircuitEnabled, err := strconv.ParseBool(getEnv("SHEETS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_ENABLED: %w", err)
	}
	sheetsCircuitFailureCount, err := getEnvAsInt("SHEETS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if sheetsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	sheetsCircuitOpenTimeout, err := getEnvAsDuration("SHEETS_CIRCUIT_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	sheetsCircuitHalfOpenMax, err := getEnvAsInt("SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if sheetsCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	standingsIDs, err := parseIDMap(getEnv("STANDINGS_SPREADSHEET_ID_MAP", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse STANDINGS_SPREADSHEET_ID_MAP: %w", err)
	}
	powerRankingsIDs, err := parseIDMap(getEnv("POWER_RANKINGS_SPREADSHEET_ID_MAP", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse POWER_RANKINGS_SPREADSHEET_ID_MAP: %w", err)
	}
	if len(powerRankingsIDs) == 0 {
		powerRankingsIDs = standingsIDs
	}

	standingsTTL, err := getEnvAsDuration("STANDINGS_CACHE_TTL", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}
	powerRankingsTTL, err := getEnvAsDuration("POWER_RANKINGS_CACHE_TTL", 60*time.Minute)
	if err != nil {
		return Config{}, err
	}
	refreshWorkers, err := getEnvAsInt("CACHE_REFRESH_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_REFRESH_WORKERS: %w", err)
	}
	if refreshWorkers < 1 {
		return Config{}, fmt.Errorf("CACHE_REFRESH_WORKERS must be >= 1")
	}
	refreshTimeout, err := getEnvAsDuration("CACHE_REFRESH_TIMEOUT", 45*time.Second)
	if err != nil {
		return Config{}, err
	}
	fetchTimeout, err := getEnvAsDuration("CACHE_FETCH_TIMEOUT", 25*time.Second)
	if err != nil {
		return Config{}, err
	}
	if fetchTimeout >= writeTimeout {
		return Config{}, fmt.Errorf("CACHE_FETCH_TIMEOUT (%s) must be shorter than APP_WRITE_TIMEOUT (%s)", fetchTimeout, writeTimeout)
	}
	refreshDedupe, err := strconv.ParseBool(getEnv("CACHE_REFRESH_DEDUPE", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_REFRESH_DEDUPE: %w", err)
	}
	warmOnStart, err := strconv.ParseBool(getEnv("CACHE_WARM_ON_START", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_WARM_ON_START: %w", err)
	}
	warmConcurrency, err := getEnvAsInt("CACHE_WARM_CONCURRENCY", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_WARM_CONCURRENCY: %w", err)
	}
	if warmConcurrency < 1 {
		return Config{}, fmt.Errorf("CACHE_WARM_CONCURRENCY must be >= 1")
	}
	warmSchedule := strings.TrimSpace(getEnv("CACHE_WARM_SCHEDULE", ""))
	if warmSchedule != "" {
		if _, err := cron.ParseStandard(warmSchedule); err != nil {
			return Config{}, fmt.Errorf("parse CACHE_WARM_SCHEDULE: %w", err)
		}
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "league-sheets-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		ShutdownTimeout:    shutdownTimeout,
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		MetricsEnabled:     metricsEnabled,
		SwaggerEnabled:     swaggerEnabled,
		PprofEnabled:       pprofEnabled,
		PprofAddr:          pprofAddr,

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		GoogleServiceAccountEmail: strings.TrimSpace(getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", "")),
		GooglePrivateKey:          getEnv("GOOGLE_PRIVATE_KEY", ""),
		SheetsEndpoint:            strings.TrimSpace(getEnv("SHEETS_ENDPOINT", "")),
		SheetsTimeout:             sheetsTimeout,
		SheetsMaxRetries:          sheetsMaxRetries,
		SheetsRetryBackoff:        sheetsRetryBackoff,
		SheetsMaxRows:             sheetsMaxRows,
		SheetsLastColumn:          sheetsLastColumn,
		SheetsCircuitEnabled:      sheetsCircuitEnabled,
		SheetsCircuitFailureCount: sheetsCircuitFailureCount,
		SheetsCircuitOpenTimeout:  sheetsCircuitOpenTimeout,
		SheetsCircuitHalfOpenMax:  sheetsCircuitHalfOpenMax,

		StandingsSpreadsheetIDs:     standingsIDs,
		PowerRankingsSpreadsheetIDs: powerRankingsIDs,

		StandingsCacheTTL:     standingsTTL,
		PowerRankingsCacheTTL: powerRankingsTTL,
		RefreshWorkers:        refreshWorkers,
		RefreshTimeout:        refreshTimeout,
		FetchTimeout:          fetchTimeout,
		RefreshDedupe:         refreshDedupe,
		WarmOnStart:           warmOnStart,
		WarmConcurrency:       warmConcurrency,
		WarmSchedule:          warmSchedule,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// HasCredentials reports whether both service account fields are set. Missing
// credentials are not a load error; queries then report a configuration
// problem.
func (c Config) HasCredentials() bool {
	return c.GoogleServiceAccountEmail != "" && strings.TrimSpace(c.GooglePrivateKey) != ""
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

// getEnvAsDuration parses a positive duration.
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseIDMap reads "majors:1AbC,aaa:9XyZ". Division keys are lower-cased.
func parseIDMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	parts := strings.Split(raw, ",")
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid map item %q, expected division:spreadsheet_id", item)
		}

		key := strings.ToLower(strings.TrimSpace(segments[0]))
		if key == "" {
			return nil, fmt.Errorf("empty division in item %q", item)
		}
		value := strings.TrimSpace(segments[1])
		if value == "" {
			return nil, fmt.Errorf("empty spreadsheet id in item %q", item)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate division %q", key)
		}

		out[key] = value
	}
	return out, nil
}

func isColumnName(v string) bool {
	if v == "" || len(v) > 3 {
		return false
	}
	for _, r := range v {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
