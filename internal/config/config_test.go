package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Env != "local" {
		t.Errorf("expected env local, got %s", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.Scoring.StepsGoal != 8000 {
		t.Errorf("expected steps goal 8000, got %d", cfg.Scoring.StepsGoal)
	}
	if cfg.Scoring.HRVBaselineMinDays != 14 {
		t.Errorf("expected 14-day HRV ramp, got %d", cfg.Scoring.HRVBaselineMinDays)
	}
	if cfg.Battery.BaseDrainPerHour >= 0 {
		t.Errorf("base drain must be negative, got %v", cfg.Battery.BaseDrainPerHour)
	}
	if cfg.Battery.MaxEnvironmentFactor < 1.0 {
		t.Errorf("max environment factor must be at least 1.0, got %v", cfg.Battery.MaxEnvironmentFactor)
	}
}

func TestLoadPolicyOverrides(t *testing.T) {
	t.Setenv("SCORE_STEPS_GOAL", "10000")
	t.Setenv("SCORE_SLEEP_IDEAL_MIN_HOURS", "6.5")
	t.Setenv("BATTERY_BASE_DRAIN", "-6")

	cfg := Load()

	if cfg.Scoring.StepsGoal != 10000 {
		t.Errorf("expected steps goal override 10000, got %d", cfg.Scoring.StepsGoal)
	}
	if cfg.Scoring.SleepIdealMinHours != 6.5 {
		t.Errorf("expected sleep ideal min 6.5, got %v", cfg.Scoring.SleepIdealMinHours)
	}
	if cfg.Battery.BaseDrainPerHour != -6 {
		t.Errorf("expected base drain -6, got %v", cfg.Battery.BaseDrainPerHour)
	}
}

func TestLoadRejectsPositiveDrain(t *testing.T) {
	t.Setenv("BATTERY_BASE_DRAIN", "3")

	cfg := Load()

	if cfg.Battery.BaseDrainPerHour != -4.5 {
		t.Errorf("positive drain must fall back to -4.5, got %v", cfg.Battery.BaseDrainPerHour)
	}
}

func TestLoadUnknownModesFallBack(t *testing.T) {
	t.Setenv("AUTH_MODE", "ldap")
	t.Setenv("ADVICE_MODE", "bard")
	t.Setenv("BLOB_MODE", "ftp")

	cfg := Load()

	if cfg.AuthMode != "none" {
		t.Errorf("expected auth mode none, got %s", cfg.AuthMode)
	}
	if cfg.AdviceMode != "mock" {
		t.Errorf("expected advice mode mock, got %s", cfg.AdviceMode)
	}
	if cfg.BlobMode != BlobModeLocal {
		t.Errorf("expected blob mode local, got %s", cfg.BlobMode)
	}
}
