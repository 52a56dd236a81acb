package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationDefaults(t *testing.T) {
	require.NotNil(t, &C)

	// Scraper defaults mirror the upstream rate limit contract.
	assert.Equal(t, 20, C.Scraper.KillSwitchThreshold)
	assert.Equal(t, 10, C.Scraper.CooldownSeconds)
	assert.Equal(t, 100, C.Scraper.MaxCount)
	assert.Equal(t, 3, C.Scraper.TransportRetries)
	assert.Equal(t, 1, C.Scraper.Workers)
	assert.Equal(t, 24, C.Scraper.CacheTTLHours)

	assert.NotEmpty(t, C.TikTok.TokenURL)
	assert.NotEmpty(t, C.TikTok.QueryURL)
	assert.Contains(t, C.TikTok.RegionCodes, "DE")
}

func TestPsqlDSN(t *testing.T) {
	cfg := Config{}
	cfg.Database.Psql = Db{
		Name:     "datadonation",
		Host:     "dbhost",
		Port:     "5433",
		User:     "scraper",
		Password: "secret",
	}

	dsn := cfg.PsqlDSN()

	assert.Contains(t, dsn, "host=dbhost")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=datadonation")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestPsqlDSN_NoPassword(t *testing.T) {
	cfg := Config{}
	cfg.Database.Psql = Db{Name: "datadonation", Host: "localhost", Port: "5432", User: "scraper"}

	assert.NotContains(t, cfg.PsqlDSN(), "password=")
}
