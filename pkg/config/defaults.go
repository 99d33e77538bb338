// Package config provides centralized default values for the ad service
package config

import (
	"bufio"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue string) []string {
	raw := getEnvString(key, defaultValue)
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvWeightMap parses "name:weight,name:weight" pairs. Entries with a
// malformed or negative weight are skipped so a partial map falls back to
// round-robin selection.
func getEnvWeightMap(key string) map[string]int {
	out := make(map[string]int)
	for _, kv := range strings.Split(os.Getenv(key), ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, ":", 2)
		if len(parts) != 2 {
			continue
		}
		weight, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || weight < 0 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = weight
	}
	return out
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	CORSOrigins        []string

	// Database Configuration
	DBPath                   string
	DBURL                    string
	DBAuthToken              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Auth Configuration
	JWTSecret string

	// Credits Service
	CreditsBaseURL        string
	CreditsTimeout        time.Duration
	CreditsOnClickEnabled bool
	CreditRatio           float64
	CreditConversionParam float64

	// Provider Selection
	ProviderList    []string
	ProviderWeights map[string]int
	DefaultProvider string

	// Anti-Abuse
	FeatureFlags      []string
	MinDisplayTime    time.Duration
	ClickDedupeWindow time.Duration
	DedupeSweepPeriod time.Duration

	// Mock Ads
	MockAdsMode     bool
	MockAdsScenario string

	// AdSense
	AdSenseClientID string
	AdSenseSlotID   string

	// Affiliate
	AffiliateAPIKey  string
	AffiliateBaseURL string

	// Revenue Sync
	RevenueSyncInterval time.Duration
	RevenueSyncLookback time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8791")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	CORSOrigins = getEnvList("CORS_ORIGIN", "http://localhost:3000")

	// Database Configuration
	DBPath = getEnvString("DB_PATH", "./data/ad_service.db")
	DBURL = getEnvString("ADS_DB_URL", "")
	DBAuthToken = getEnvString("ADS_DB_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 250*time.Millisecond)

	// Auth Configuration
	JWTSecret = getEnvString("JWT_SECRET", "")

	// Credits Service
	CreditsBaseURL = getEnvString("PAYMENT_SERVICE_BASE_URL", getEnvString("CREDITS_BASE_URL", "http://localhost:8790"))
	CreditsTimeout = getEnvDuration("CREDITS_TIMEOUT", 3*time.Second)
	CreditsOnClickEnabled = getEnvBool("CREDITS_ON_CLICK_ENABLED", false)
	CreditRatio = getEnvFloat("AD_CREDIT_RATIO", 1)
	CreditConversionParam = getEnvFloat("CREDIT_CONVERSION_PARAM", 1)

	// Provider Selection
	ProviderList = getEnvList("PROVIDER_LIST", "google")
	ProviderWeights = getEnvWeightMap("PROVIDER_WEIGHTS")
	DefaultProvider = getEnvString("DEFAULT_PROVIDER", "google")

	// Anti-Abuse
	FeatureFlags = getEnvList("ADS_FEATURE_FLAGS", "")
	MinDisplayTime = time.Duration(getEnvInt("AD_MIN_DISPLAY_MS", 5000)) * time.Millisecond
	ClickDedupeWindow = time.Duration(getEnvInt("CLICK_DEDUPE_WINDOW_MS", 5000)) * time.Millisecond
	DedupeSweepPeriod = getEnvDuration("CLICK_DEDUPE_SWEEP_PERIOD", 10*time.Minute)

	// Mock Ads
	MockAdsMode = getEnvBool("MOCK_ADS_MODE", false)
	MockAdsScenario = getEnvString("MOCK_ADS_SCENARIO", "success")

	// AdSense
	AdSenseClientID = getEnvString("ADSENSE_CLIENT_ID", "")
	AdSenseSlotID = getEnvString("ADSENSE_SLOT_ID", "")

	// Affiliate
	AffiliateAPIKey = getEnvString("AFFILIATE_API_KEY", "")
	AffiliateBaseURL = getEnvString("AFFILIATE_BASE_URL", "")

	// Revenue Sync
	RevenueSyncInterval = getEnvDuration("SYNC_REVENUE_INTERVAL", time.Hour)
	RevenueSyncLookback = getEnvDuration("SYNC_REVENUE_LOOKBACK", 24*time.Hour)
}

// HasFeatureFlag reports whether the named anti-abuse flag is enabled.
func HasFeatureFlag(name string) bool {
	return slices.Contains(FeatureFlags, name)
}

// Feature flag names recognized in ADS_FEATURE_FLAGS.
const (
	FlagViewability = "viewability"
	FlagClickDedupe = "click_dedupe"
)
