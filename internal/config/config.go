package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

// ScoringPolicy — численные пороги скоринга.
// Все значения настраиваются через env; дефолты соответствуют продуктовой спецификации.
type ScoringPolicy struct {
	// Sleep
	SleepIdealMinHours float64 // full duration credit from
	SleepIdealMaxHours float64 // full duration credit to
	SleepZeroMinHours  float64 // 0 pts at or below
	SleepZeroMaxHours  float64 // 0 pts at or above
	DeepRatioMin       float64 // ideal deep-sleep ratio band
	DeepRatioMax       float64
	RemRatioMin        float64 // ideal REM ratio band
	RemRatioMax        float64
	RatioFalloffPct    float64 // percentage points outside the band where credit reaches 0
	DeepFallbackRatio  float64 // estimate when stage data is missing
	RemFallbackRatio   float64
	EfficiencyFull     float64 // full credit at or above
	EfficiencyZero     float64 // no credit at or below

	// HRV
	HRVBaselineMinDays   int     // below this, absolute fallback table is used
	HRVFullDeviationPct  float64 // |deviation| within this → full credit
	HRVZeroDeviationPct  float64 // |deviation| at this → 0
	RestingHRZeroOverBPM float64 // bpm over baseline where credit reaches 0

	// Activity
	StepsGoal          int
	ActiveMinutesGoal  int
	SedentaryFullMin   int // longest sedentary interval below this → full credit
	SedentaryZeroMin   int // at or above this → 0

	// Rhythm
	StabilityStdDevMin  float64 // minutes of std dev where stability credit reaches 0
	WeekendShiftZeroMin float64 // minutes of weekday/weekend gap where credit reaches 0
	StableScoreFloor    int     // rhythm score at or above counts toward the stable streak
	StableMaxDrop       int     // max day-over-day drop that still counts as stable
}

// BatteryPolicy — параметры энергетической модели.
type BatteryPolicy struct {
	BaseDrainPerHour   float64 // negative, %/hour under neutral conditions
	StandardMultiplier float64
	AthleteMultiplier  float64

	// Environment factor thresholds
	HeatThresholdC       float64
	HumidityThresholdPct float64
	HeatFactorPerC       float64
	PressureDropHPa      float64 // drop magnitude beyond which the factor grows
	PressureDropBase     float64 // one-time bump once the threshold is crossed
	PressureFactorPerHPa float64
	MaxEnvironmentFactor float64
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string
	DatabaseURLPooled string
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	RunMigrationsOnStartup bool

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Auth
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Weather acquisition
	WeatherBaseURL        string
	WeatherTimeoutSeconds int
	WeatherLatitude       float64
	WeatherLongitude      float64

	// Advice (generative text collaborator)
	AdviceMode        string // mock | openai
	AIMaxOutputTokens int
	AITemperature     float64
	AITimeoutSeconds  int
	OpenAIAPIKey      string
	OpenAIModel       string

	// Reports / blob
	BlobMode            string // local | s3 | auto
	ReportsMaxRangeDays int
	S3                  S3Config

	Scoring ScoringPolicy
	Battery BatteryPolicy
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	port := envInt("PORT", 8080)

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := parseBoolEnv("CORS_ALLOW_CREDENTIALS")

	// ---------- Auth ----------
	authMode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if authMode == "" {
		authMode = "none"
	}
	if authMode != "none" && authMode != "dev" {
		log.Printf("WARNING: unknown AUTH_MODE=%q, fallback to none", authMode)
		authMode = "none"
	}
	authRequired := authMode != "none" && parseBoolEnv("AUTH_REQUIRED")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change_me"
	}
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "energy-hub"
	}

	// ---------- Weather ----------
	weatherBaseURL := strings.TrimSpace(os.Getenv("WEATHER_BASE_URL"))
	if weatherBaseURL == "" {
		weatherBaseURL = "https://api.open-meteo.com"
	}
	weatherTimeout := envInt("WEATHER_TIMEOUT_SECONDS", 10)
	if weatherTimeout <= 0 {
		weatherTimeout = 10
	}

	// ---------- Advice ----------
	adviceMode := strings.ToLower(strings.TrimSpace(os.Getenv("ADVICE_MODE")))
	if adviceMode == "" {
		adviceMode = "mock"
	}
	if adviceMode != "mock" && adviceMode != "openai" {
		log.Printf("WARNING: unknown ADVICE_MODE=%q, fallback to mock", adviceMode)
		adviceMode = "mock"
	}

	aiMaxOutputTokens := envInt("AI_MAX_OUTPUT_TOKENS", 400)
	if aiMaxOutputTokens <= 0 {
		aiMaxOutputTokens = 400
	}
	aiTemperature := envFloat("AI_TEMPERATURE", 0.3)
	if aiTemperature < 0 {
		aiTemperature = 0
	}
	if aiTemperature > 2 {
		aiTemperature = 2
	}
	aiTimeoutSeconds := envInt("AI_TIMEOUT_SECONDS", 20)
	if aiTimeoutSeconds <= 0 {
		aiTimeoutSeconds = 20
	}
	openAIAPIKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	openAIModel := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if openAIModel == "" {
		openAIModel = "gpt-4.1-mini"
	}
	if adviceMode == "openai" && openAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required when ADVICE_MODE=openai")
	}

	// ---------- Blob / reports ----------
	blobMode := strings.ToLower(strings.TrimSpace(os.Getenv("BLOB_MODE")))
	if blobMode == "" {
		blobMode = BlobModeLocal
	}
	if blobMode != BlobModeLocal && blobMode != BlobModeS3 && blobMode != BlobModeAuto {
		log.Printf("WARNING: unknown BLOB_MODE=%q, fallback to %s", blobMode, BlobModeLocal)
		blobMode = BlobModeLocal
	}

	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	return &Config{
		Env:               env,
		Port:              port,
		LogLevel:          logLevel,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 0),

		AuthMode:      authMode,
		AuthRequired:  authRequired,
		JWTSecret:     jwtSecret,
		JWTIssuer:     jwtIssuer,
		JWTTTLMinutes: envInt("JWT_TTL_MINUTES", 10080),

		WeatherBaseURL:        weatherBaseURL,
		WeatherTimeoutSeconds: weatherTimeout,
		WeatherLatitude:       envFloat("WEATHER_LATITUDE", 0),
		WeatherLongitude:      envFloat("WEATHER_LONGITUDE", 0),

		AdviceMode:        adviceMode,
		AIMaxOutputTokens: aiMaxOutputTokens,
		AITemperature:     aiTemperature,
		AITimeoutSeconds:  aiTimeoutSeconds,
		OpenAIAPIKey:      openAIAPIKey,
		OpenAIModel:       openAIModel,

		BlobMode:            blobMode,
		ReportsMaxRangeDays: envInt("REPORTS_MAX_RANGE_DAYS", 90),
		S3: S3Config{
			Endpoint:        strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			Region:          strings.TrimSpace(os.Getenv("S3_REGION")),
			Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKeyID:     strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
			SecretAccessKey: strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
			PresignTTL:      s3PresignTTL,
		},

		Scoring: loadScoringPolicy(),
		Battery: loadBatteryPolicy(),
	}
}

// loadScoringPolicy читает пороги скоринга (SCORE_*).
// Дефолты — значения из продуктовой спецификации, не хардкод в скорерах.
func loadScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		SleepIdealMinHours: envFloat("SCORE_SLEEP_IDEAL_MIN_HOURS", 7),
		SleepIdealMaxHours: envFloat("SCORE_SLEEP_IDEAL_MAX_HOURS", 9),
		SleepZeroMinHours:  envFloat("SCORE_SLEEP_ZERO_MIN_HOURS", 4),
		SleepZeroMaxHours:  envFloat("SCORE_SLEEP_ZERO_MAX_HOURS", 12),
		DeepRatioMin:       envFloat("SCORE_DEEP_RATIO_MIN", 0.15),
		DeepRatioMax:       envFloat("SCORE_DEEP_RATIO_MAX", 0.20),
		RemRatioMin:        envFloat("SCORE_REM_RATIO_MIN", 0.20),
		RemRatioMax:        envFloat("SCORE_REM_RATIO_MAX", 0.25),
		RatioFalloffPct:    envFloat("SCORE_RATIO_FALLOFF_PCT", 10),
		DeepFallbackRatio:  envFloat("SCORE_DEEP_FALLBACK_RATIO", 0.17),
		RemFallbackRatio:   envFloat("SCORE_REM_FALLBACK_RATIO", 0.22),
		EfficiencyFull:     envFloat("SCORE_EFFICIENCY_FULL", 0.85),
		EfficiencyZero:     envFloat("SCORE_EFFICIENCY_ZERO", 0.50),

		HRVBaselineMinDays:   envInt("SCORE_HRV_BASELINE_MIN_DAYS", 14),
		HRVFullDeviationPct:  envFloat("SCORE_HRV_FULL_DEVIATION_PCT", 20),
		HRVZeroDeviationPct:  envFloat("SCORE_HRV_ZERO_DEVIATION_PCT", 50),
		RestingHRZeroOverBPM: envFloat("SCORE_RESTING_HR_ZERO_OVER_BPM", 15),

		StepsGoal:         envInt("SCORE_STEPS_GOAL", 8000),
		ActiveMinutesGoal: envInt("SCORE_ACTIVE_MINUTES_GOAL", 30),
		SedentaryFullMin:  envInt("SCORE_SEDENTARY_FULL_MIN", 60),
		SedentaryZeroMin:  envInt("SCORE_SEDENTARY_ZERO_MIN", 180),

		StabilityStdDevMin:  envFloat("SCORE_STABILITY_STDDEV_MIN", 30),
		WeekendShiftZeroMin: envFloat("SCORE_WEEKEND_SHIFT_ZERO_MIN", 60),
		StableScoreFloor:    envInt("SCORE_STABLE_FLOOR", 70),
		StableMaxDrop:       envInt("SCORE_STABLE_MAX_DROP", 10),
	}
}

// loadBatteryPolicy читает параметры батареи (BATTERY_* / WEATHER_FACTOR_*).
func loadBatteryPolicy() BatteryPolicy {
	baseDrain := envFloat("BATTERY_BASE_DRAIN", -4.5)
	if baseDrain >= 0 {
		log.Printf("WARNING: BATTERY_BASE_DRAIN=%v is not negative, fallback to -4.5", baseDrain)
		baseDrain = -4.5
	}
	return BatteryPolicy{
		BaseDrainPerHour:   baseDrain,
		StandardMultiplier: envFloat("BATTERY_STANDARD_MULTIPLIER", 1.0),
		AthleteMultiplier:  envFloat("BATTERY_ATHLETE_MULTIPLIER", 1.1),

		HeatThresholdC:       envFloat("WEATHER_FACTOR_HEAT_THRESHOLD_C", 30),
		HumidityThresholdPct: envFloat("WEATHER_FACTOR_HUMIDITY_THRESHOLD_PCT", 60),
		HeatFactorPerC:       envFloat("WEATHER_FACTOR_HEAT_PER_C", 0.02),
		PressureDropHPa:      envFloat("WEATHER_FACTOR_PRESSURE_DROP_HPA", 2),
		PressureDropBase:     envFloat("WEATHER_FACTOR_PRESSURE_BASE", 0.1),
		PressureFactorPerHPa: envFloat("WEATHER_FACTOR_PRESSURE_PER_HPA", 0.05),
		MaxEnvironmentFactor: envFloat("WEATHER_FACTOR_MAX", 2.0),
	}
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
