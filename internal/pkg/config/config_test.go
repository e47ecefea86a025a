package config

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("biogrid-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "biogrid-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, "biogrid-reports", cfg.Temporal.TaskQueue)
	assert.Equal(t, "./exports", cfg.Export.Dir)
	assert.False(t, cfg.Export.Headers)
	assert.Equal(t, 600, cfg.Cache.ReportTTL)
	assert.Equal(t, int32(50), cfg.Database.MaxConns)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BIOGRID_EXPORT_DIR", "/var/lib/biogrid")
	t.Setenv("BIOGRID_SERVER_PORT", "9090")
	t.Setenv("BIOGRID_EXPORT_HEADERS", "true")

	cfg, err := Load("biogrid-test")
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/biogrid", cfg.Export.Dir)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Export.Headers)
}

func TestLoadWithFlags(t *testing.T) {
	fs := pflag.NewFlagSet("gridctl", pflag.ContinueOnError)
	fs.String("export-dir", "", "")
	fs.Bool("export-headers", false, "")
	fs.String("log-level", "info", "")
	fs.Float64("min-lat", 0, "")
	require.NoError(t, fs.Parse([]string{"--export-dir=/tmp/out", "--export-headers", "--log-level=debug", "--min-lat=3"}))

	cfg, err := LoadWithFlags("gridctl", fs)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out", cfg.Export.Dir)
	assert.True(t, cfg.Export.Headers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFlagKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		ok   bool
	}{
		{"export-dir", "export.dir", true},
		{"cache-report-ttl", "cache.report_ttl", true},
		{"min-lat", "", false},
		{"export", "", false},
		{"sites", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := flagKey(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "u", DBName: "d"},
		NATS:     NATSConfig{URL: "nats://localhost:4222"},
		Valkey:   ValkeyConfig{Addr: "localhost:6379"},
		Temporal: TemporalConfig{TaskQueue: "q"},
		Export:   ExportConfig{Dir: "out"},
		Cache:    CacheConfig{ReportTTL: 60},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	cfg.Export.Dir = ""
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "config validation failed:"))
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "export.dir is required")
	assert.Contains(t, msg, "log.format")
}
