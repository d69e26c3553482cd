package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	path := writeConfig(t, `
srv_port: ":9000"
storage: "postgres"
db:
  host: "db"
  port: 5432
  login: "u"
  password: "p"
  database: "cart"
catalog:
  base_url: "http://catalog/"
  timeout: 2s
  enforce_stock: true
kafka:
  brokers: ["k1:9092"]
`)

	c, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.ServerPort)
	assert.Equal(t, StoragePostgres, c.Storage)
	assert.Equal(t, 2*time.Second, c.CfgCatalog.Timeout)
	assert.True(t, c.CfgCatalog.EnforceStock)
	assert.Equal(t, []string{"k1:9092"}, c.CfgKafka.Brokers)
	// значения по умолчанию
	assert.Equal(t, "cart-events", c.CfgKafka.Topic)
	assert.Equal(t, "redis:6379", c.CfgRedis.Addr)
	assert.Equal(t, 1024, c.CfgCache.Size)
	assert.Equal(t, 10*time.Minute, c.CfgCache.TTL)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cart sslmode=disable", c.CfgDB.DSN())
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
catalog:
  base_url: "http://catalog/"
`)
	t.Setenv("CATALOG_URL", "http://other:3333")
	t.Setenv("CATALOG_ENFORCE_STOCK", "true")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("CART_REDIS_ADDR", "localhost:6380")

	c, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://other:3333", c.CfgCatalog.BaseURL)
	assert.True(t, c.CfgCatalog.EnforceStock)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.CfgKafka.Brokers)
	assert.Equal(t, "localhost:6380", c.CfgRedis.Addr)
	assert.Equal(t, StorageRedis, c.Storage)
}

func TestNewConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "no catalog", body: `srv_port: ":1"`},
		{name: "unknown storage", body: "storage: \"mongo\"\ncatalog:\n  base_url: \"http://c/\"\n"},
		{name: "bad yaml", body: `catalog: [`},
		{name: "bad bool", body: "catalog:\n  base_url: \"http://c/\"\n", env: map[string]string{"CATALOG_ENFORCE_STOCK": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is fine", func(t *testing.T) {
		assert.NoError(t, loadDotEnv(filepath.Join(dir, "absent.env")))
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(dir, "broken.env")
		require.NoError(t, os.WriteFile(path, []byte("CART_SRV_PORT=:9999\nthis-is-not-an-env-line\n"), 0o600))

		err := loadDotEnv(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.env")
		_, set := os.LookupEnv("CART_SRV_PORT")
		assert.False(t, set)
	})

	t.Run("valid file is loaded", func(t *testing.T) {
		path := filepath.Join(dir, "ok.env")
		require.NoError(t, os.WriteFile(path, []byte("CART_DOTENV_CHECK=from-file\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("CART_DOTENV_CHECK") })

		require.NoError(t, loadDotEnv(path))
		assert.Equal(t, "from-file", os.Getenv("CART_DOTENV_CHECK"))
	})
}
