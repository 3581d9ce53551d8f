package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, read once at startup from the
// environment.
type Config struct {
	DatabaseURL string
	Port        string

	// Dispatch timing.
	DefaultTaskTimeout  time.Duration
	AsyncBroadcastFloor time.Duration
	SweepBatchSize      int

	// Account whose fleet executes hosted tasks; empty disables hosted
	// execution.
	GlobalAccountID string

	// Admission ceilings per rank; zero disables the check for that rank.
	CriticalTaskLimit  int
	ImportantTaskLimit int
	OptionalTaskLimit  int
	AdmissionMemoTTL   time.Duration

	// Capability-proof whitelist freshness.
	ProofTTL time.Duration

	// Background loops.
	ExpirySweepInterval      time.Duration
	RebroadcastSweepInterval time.Duration

	// Delegate-offline grace before in-flight tasks are failed.
	OfflineGrace time.Duration
}

func FromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        envString("PORT", "8080"),

		DefaultTaskTimeout:  envDuration("DEFAULT_TASK_TIMEOUT_SECONDS", 10*time.Minute),
		AsyncBroadcastFloor: envDuration("ASYNC_BROADCAST_FLOOR_SECONDS", 5*time.Second),
		SweepBatchSize:      envInt("SWEEP_BATCH_SIZE", 100),
		GlobalAccountID:     os.Getenv("GLOBAL_DELEGATE_ACCOUNT_ID"),

		CriticalTaskLimit:  envInt("CRITICAL_TASK_LIMIT", 50000),
		ImportantTaskLimit: envInt("IMPORTANT_TASK_LIMIT", 25000),
		OptionalTaskLimit:  envInt("OPTIONAL_TASK_LIMIT", 10000),
		AdmissionMemoTTL:   envDuration("ADMISSION_MEMO_TTL_SECONDS", time.Minute),

		ProofTTL: envDuration("CAPABILITY_PROOF_TTL_SECONDS", 30*time.Minute),

		ExpirySweepInterval:      envDuration("EXPIRY_SWEEP_INTERVAL_SECONDS", 30*time.Second),
		RebroadcastSweepInterval: envDuration("REBROADCAST_SWEEP_INTERVAL_SECONDS", 5*time.Second),

		OfflineGrace: envDuration("DELEGATE_OFFLINE_GRACE_SECONDS", 5*time.Minute),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return defaultVal
}

// envDuration reads an integer-seconds env var and returns a Duration.
// Falls back to defaultVal if the var is unset or invalid.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
