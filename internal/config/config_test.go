package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
[server]
http_port = 8081

[database]
host = "db"
user = "repair"
password = "secret"
dbname = "repair"

[logs]
level = "debug"

[booking]
acquire_timeout = 5

[mailer]
url = "https://mail.example.com/v1"
api_key = "key"
from = "noreply@example.com"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 5*time.Second, cfg.Booking.AcquireTimeoutDuration())
	assert.Equal(t, 15*time.Second, cfg.Booking.ExecTimeoutDuration())
	assert.Equal(t, "host=db port=5432 user=repair password=secret dbname=repair sslmode=disable", cfg.Database.DSN())
	assert.False(t, cfg.Queue.Enabled)
}

func TestLoad_ValidationFails(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing mailer",
			content: "[database]\nuser = \"u\"\ndbname = \"d\"\n",
		},
		{
			name: "bad log level",
			content: `
[database]
user = "u"
dbname = "d"

[logs]
level = "verbose"

[mailer]
url = "https://mail.example.com"
from = "noreply@example.com"
`,
		},
		{
			name: "queue enabled without redis",
			content: validConfig + `
[queue]
enabled = true
redis_addr = ""
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
