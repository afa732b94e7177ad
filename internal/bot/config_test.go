package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/cafebot/core/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: yaml-token
  operator_chat_id: -100
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml-token", cfg.Telegram.Token)
	assert.Equal(t, int64(-100), cfg.Telegram.OperatorChatID)
	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, coreconfig.SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, defaultContentPath, cfg.Content.Path)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("OPERATOR_CHAT_ID", "-200")
	t.Setenv("CONTENT_PATH", "/srv/content.yaml")
	path := writeConfig(t, `
telegram:
  token: yaml-token
  operator_chat_id: -100
content:
  path: configs/content.yaml
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, int64(-200), cfg.Telegram.OperatorChatID)
	assert.Equal(t, "/srv/content.yaml", cfg.Content.Path)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"missing operator": `
telegram:
  token: x
`,
		"postgres without database": `
telegram:
  token: x
  operator_chat_id: 1
session:
  backend: postgres
`,
		"redis without addr": `
telegram:
  token: x
  operator_chat_id: 1
session:
  backend: redis
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigPostgres(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: x
  operator_chat_id: 1
session:
  backend: Postgres
database:
  host: localhost
  name: cafebot
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, coreconfig.SessionBackendPostgres, cfg.Session.Backend)
	assert.Equal(t, "cafebot", cfg.Database.Name)
}
