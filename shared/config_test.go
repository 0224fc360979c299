package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePort(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "numeric", raw: "3000", want: 3000},
		{name: "empty", raw: "", want: 0},
		{name: "zero", raw: "0", want: 0},
		{name: "not a number", raw: "http", wantErr: true},
		{name: "trailing garbage", raw: "3000abc", want: 3000},
		{name: "decimal", raw: "3000.5", want: 3000},
		{name: "leading whitespace", raw: " 3000", want: 3000},
		{name: "signed", raw: "+8080", want: 8080},
		{name: "sign only", raw: "-", wantErr: true},
		{name: "letters first", raw: "abc3000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePort(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("URLENCODED_EXTENDED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg := configFromViper(newEnvViper())

	assert.Equal(t, "3000", cfg.RawPort)
	assert.Equal(t, 3000, cfg.Port)
	assert.NoError(t, cfg.PortErr)
	assert.Equal(t, ":3000", cfg.ListenAddr())
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.URLEncodedExtended)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "cache.internal", cfg.RedisHost)
}

func TestConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("BODY_LIMIT", "")

	cfg := configFromViper(newEnvViper())

	assert.Empty(t, cfg.RawPort)
	assert.Zero(t, cfg.Port)
	assert.NoError(t, cfg.PortErr)
	assert.Equal(t, ":0", cfg.ListenAddr())
	assert.Equal(t, 100*1024, cfg.BodyLimit)
	assert.True(t, cfg.URLEncodedExtended)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "user-service", cfg.UserEventTopic)
}

func TestConfigPortPrefixIsUsed(t *testing.T) {
	t.Setenv("PORT", "3000abc")

	cfg := configFromViper(newEnvViper())

	assert.NoError(t, cfg.PortErr)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.ListenAddr())
}

func TestConfigInvalidPortIsPassedToListener(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := configFromViper(newEnvViper())

	assert.Error(t, cfg.PortErr)
	assert.Zero(t, cfg.Port)
	assert.Equal(t, ":not-a-port", cfg.ListenAddr())
}
