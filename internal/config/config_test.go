package config

import (
	"os"
	"path/filepath"
	"testing"

	"wearprep/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DATA_DIR", "PARTICIPANTS", "SENSORS", "USERS_INFO_FILE",
		"USERS_INFO_FOOTER_ROWS", "NA_PLACEHOLDER", "CLEAN_WORKERS", "DATABASE_URL",
		"OUTPUT_XLSX", "REPORT_HTML", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dataset/wearables", cfg.Data.Dir)
	assert.Nil(t, cfg.Data.Participants)
	assert.Equal(t, []string{"ACC", "BVP", "EDA", "HR", "IBI", "TEMP"}, cfg.Data.Sensors)
	assert.Equal(t, 10, cfg.Demographics.FooterRows)
	assert.Equal(t, "-", cfg.Demographics.NAPlaceholder)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/data/wearables")
	t.Setenv("PARTICIPANTS", "S01, S02 ,,f07")
	t.Setenv("SENSORS", "HR,IBI")
	t.Setenv("CLEAN_WORKERS", "8")
	t.Setenv("USERS_INFO_FOOTER_ROWS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"S01", "S02", "f07"}, cfg.Data.Participants)
	assert.Equal(t, []string{"HR", "IBI"}, cfg.Data.Sensors)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 3, cfg.Demographics.FooterRows)
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	t.Setenv("CLEAN_WORKERS", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoadWithEnvFile(t *testing.T) {
	// godotenv only fills variables that are absent, not empty
	for _, k := range []string{"DATA_DIR", "OUTPUT_XLSX"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATA_DIR=/from/dotenv\nOUTPUT_XLSX=out.xlsx\n"), 0o644))

	cfg, err := LoadWithEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv", cfg.Data.Dir)
	assert.Equal(t, "out.xlsx", cfg.Output.XLSXFile)

	_, err = LoadWithEnvFile(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
