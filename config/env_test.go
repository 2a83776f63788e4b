package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadFromFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"mongo_database":"fromjson","app_env":"staging","auth_rate_limit":7}`)
	envPath := writeFile(t, dir, ".env", "# comment\nMONGO_DATABASE=\"fromenv\"\nJWT_SECRET='s3cr3t'\n")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "fromenv", get("MONGO_DATABASE", ""))
	assert.Equal(t, "staging", get("APP_ENV", ""))
	assert.Equal(t, "s3cr3t", get("JWT_SECRET", ""))
	assert.Equal(t, 7, getInt("AUTH_RATE_LIMIT", 0))
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env")))

	assert.Equal(t, defaultMongoDatabase, get("MONGO_DATABASE", ""))
	assert.Equal(t, defaultDatabaseDriver, get("DB_DRIVER", ""))
}

func TestLoadFromFiles_BadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{not json`)

	err := loadFromFiles(jsonPath, filepath.Join(dir, "nope.env"))
	assert.Error(t, err)
}

func TestMergeEnviron_OnlyKnownKeys(t *testing.T) {
	out := defaultValues()
	mergeEnviron([]string{"MONGO_URL=mongodb://db:27017", "SECRETKEY=legacy", "HOME=/root", "broken"}, out)

	assert.Equal(t, "mongodb://db:27017", out["MONGO_URL"])
	assert.Equal(t, "legacy", out["SECRETKEY"])
	_, ok := out["HOME"]
	assert.False(t, ok)
}

func TestTypedGetters_Fallbacks(t *testing.T) {
	mu.Lock()
	values = defaultValues()
	values["CACHE_TTL"] = "garbage"
	values["MAX_UPLOAD_BYTES"] = "-1"
	values["STORAGE_PRUNE_REPLACED"] = "yes-please"
	mu.Unlock()

	d, err := time.ParseDuration(get("CACHE_TTL", ""))
	assert.Error(t, err)
	assert.Zero(t, d)
	assert.Equal(t, defaultMaxUploadBytes, getInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes))
	assert.False(t, getBool("STORAGE_PRUNE_REPLACED", false))
}

func TestLegacyKeys(t *testing.T) {
	mu.Lock()
	values = defaultValues()
	values["SECRETKEY"] = "old-secret"
	values["PORT"] = "8081"
	values["MONGOURL"] = "mongodb://legacy:27017"
	mu.Unlock()

	assert.Equal(t, "old-secret", get("JWT_SECRET", get("SECRETKEY", defaultJWTSecret)))
	assert.Equal(t, "8081", get("APP_PORT", get("PORT", defaultAppPort)))
	assert.Equal(t, "mongodb://legacy:27017", get("MONGO_URL", get("MONGOURL", defaultMongoURL)))
}

func TestCheckSecret(t *testing.T) {
	assert.NoError(t, checkSecret("local", defaultJWTSecret))
	assert.NoError(t, checkSecret("production", "a-real-secret"))
	assert.Error(t, checkSecret("production", defaultJWTSecret))
	assert.Error(t, checkSecret("prod", ""))
}
