package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenPort)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.PrettyLog)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 5*1024*1024, cfg.QuotaBytes)
	assert.Equal(t, "shelf:", cfg.KeyPrefix)
	assert.Equal(t, 24*time.Hour, cfg.SeedInterval)
	assert.Equal(t, 30*time.Second, cfg.Redis.ConnectTimeout)
	assert.Equal(t, 3, cfg.Redis.WarnThreshold)
	assert.Nil(t, cfg.AllowedHosts)
	assert.Equal(t, float64(10), cfg.RateLimit)
}

func TestLoadFromProcessEnv(t *testing.T) {
	t.Setenv("SHELF_LISTEN_PORT", ":9999")
	t.Setenv("SHELF_STORE_BACKEND", "SQLite")
	t.Setenv("SHELF_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("SHELF_ALLOWED_HOSTS", `books.home.lan, "shelf.example.com" ,`)
	t.Setenv("SHELF_REDIS_POOL_SIZE", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenPort)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, []string{"books.home.lan", "shelf.example.com"}, cfg.AllowedHosts)
	assert.Equal(t, 4, cfg.Redis.PoolSize)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		wantErr string
	}{
		{
			name:    "unparsable duration",
			environ: map[string]string{"SHELF_SHUTDOWN_TIMEOUT": "soon"},
			wantErr: "parse environment",
		},
		{
			name:    "unknown backend",
			environ: map[string]string{"SHELF_STORE_BACKEND": "floppy"},
			wantErr: "unknown SHELF_STORE_BACKEND",
		},
		{
			name:    "redis without address",
			environ: map[string]string{"SHELF_STORE_BACKEND": "redis"},
			wantErr: "SHELF_REDIS_ADDR is required",
		},
		{
			name: "redis password required",
			environ: map[string]string{
				"SHELF_STORE_BACKEND":           "redis",
				"SHELF_REDIS_ADDR":              "localhost:6379",
				"SHELF_REDIS_PASSWORD_REQUIRED": "true",
			},
			wantErr: "SHELF_REDIS_PASSWORD is required",
		},
		{
			name:    "negative quota",
			environ: map[string]string{"SHELF_QUOTA_BYTES": "-1"},
			wantErr: "SHELF_QUOTA_BYTES",
		},
		{
			name:    "unknown time zone",
			environ: map[string]string{"SHELF_TIME_ZONE": "Mars/Olympus_Mons"},
			wantErr: "SHELF_TIME_ZONE",
		},
		{
			name:    "bad cidr",
			environ: map[string]string{"SHELF_ALLOWED_CIDRS": "10.0.0.0/8, nope"},
			wantErr: `invalid entry "nope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRedisBackend(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"SHELF_STORE_BACKEND":  "redis",
		"SHELF_REDIS_ADDR":     "redis:6379",
		"SHELF_REDIS_PASSWORD": "hunter2",
		"SHELF_REDIS_USERNAME": "shelf",
		"SHELF_REDIS_DB":       "2",
	})
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)

	red := cfg.Redacted()
	assert.Equal(t, "***REDACTED***", red.Redis.Password)
	assert.Equal(t, "***REDACTED***", red.Redis.User)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestLocation(t *testing.T) {
	tests := []struct {
		tz   string
		want string
	}{
		{tz: "", want: time.Local.String()},
		{tz: "Local", want: time.Local.String()},
		{tz: "UTC", want: "UTC"},
	}
	for _, tt := range tests {
		loc, err := (&Config{TimeZone: tt.tz}).Location()
		require.NoError(t, err)
		assert.Equal(t, tt.want, loc.String())
	}
}
