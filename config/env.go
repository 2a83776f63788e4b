package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultDatabaseDriver = "mongo"
	defaultMongoURL       = "mongodb://localhost:27017"
	defaultMongoDatabase  = "nftlisting"
	defaultJWTSecret      = "change-me-in-production"
	defaultAppPort        = "3000"
	defaultAppEnv         = "local"
	defaultUploadDir      = "uploads"
	defaultMaxUploadBytes = 10 << 20
	defaultMaxBodyBytes   = 4 << 20
	defaultCacheTTL       = time.Minute
	defaultAuthRateLimit  = 20
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once. Process environment variables
// take precedence over both files.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":        defaultAppEnv,
		"APP_PORT":       "",
		"DB_DRIVER":      defaultDatabaseDriver,
		"MONGO_URL":      "",
		"MONGO_DATABASE": defaultMongoDatabase,
		"JWT_SECRET":     "",
		"STORAGE_DISK":   "local",
		"UPLOAD_DIR":     defaultUploadDir,
		"REDIS_ADDR":     "",
		"REDIS_PASSWORD": "",
	}
}

// ── Application ──────────────────────────────────────────────────────────────

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// AppPort honours APP_PORT first and the conventional PORT second.
func AppPort() string {
	_ = Load()
	return get("APP_PORT", get("PORT", defaultAppPort))
}

func isProduction(env string) bool {
	switch strings.ToLower(env) {
	case "production", "prod":
		return true
	}
	return false
}

// Validate rejects settings that must never reach a production deployment.
func Validate() error {
	return checkSecret(AppEnv(), JWTSecret())
}

func checkSecret(env, secret string) error {
	if isProduction(env) && (secret == "" || secret == defaultJWTSecret) {
		return fmt.Errorf("config: JWT_SECRET must be set when APP_ENV=%s", env)
	}
	return nil
}

// ── Database ─────────────────────────────────────────────────────────────────

func DatabaseDriver() string {
	_ = Load()

	driver := strings.ToLower(get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "mongo", "memory":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

// MongoURL also accepts the legacy MONGOURL key.
func MongoURL() string {
	_ = Load()
	return get("MONGO_URL", get("MONGOURL", defaultMongoURL))
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DATABASE", defaultMongoDatabase)
}

// ── Auth ─────────────────────────────────────────────────────────────────────

// JWTSecret also accepts the legacy SECRETKEY key.
func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", get("SECRETKEY", defaultJWTSecret))
}

func AuthRateLimit() int {
	_ = Load()
	return getInt("AUTH_RATE_LIMIT", defaultAuthRateLimit)
}

func CORSOrigins() []string {
	_ = Load()
	raw := get("CORS_ORIGINS", "*")
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	_ = Load()
	return get("STORAGE_DISK", "local")
}

func UploadDir() string {
	_ = Load()
	return get("UPLOAD_DIR", defaultUploadDir)
}

// StoragePruneReplaced reports whether superseded and deleted images should be
// removed from the disk.
func StoragePruneReplaced() bool {
	_ = Load()
	return getBool("STORAGE_PRUNE_REPLACED", false)
}

func MaxUploadBytes() int64 {
	_ = Load()
	return int64(getInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes))
}

func MaxBodyBytes() int64 {
	_ = Load()
	return int64(getInt("MAX_BODY_BYTES", defaultMaxBodyBytes))
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }

// ── Cache ────────────────────────────────────────────────────────────────────

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", "")
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func CacheTTL() time.Duration {
	_ = Load()
	d, err := time.ParseDuration(get("CACHE_TTL", ""))
	if err != nil || d <= 0 {
		return defaultCacheTTL
	}
	return d
}

// ── Seeding ──────────────────────────────────────────────────────────────────

// AdminUsername, AdminEmail and AdminPassword describe the account created by
// the admin seeder. An empty email or password disables it.
func AdminUsername() string { _ = Load(); return get("ADMIN_USERNAME", "admin") }
func AdminEmail() string    { _ = Load(); return get("ADMIN_EMAIL", "") }
func AdminPassword() string { _ = Load(); return get("ADMIN_PASSWORD", "") }

// ── Logging ──────────────────────────────────────────────────────────────────

func LogToMongo() bool {
	_ = Load()
	return getBool("LOG_TO_MONGO", false)
}

// ── Loading ──────────────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeEnviron(os.Environ(), loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(v)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

// mergeEnviron overlays KEY=VALUE pairs, but only for keys the service knows
// about or keys already present from the files.
func mergeEnviron(environ []string, out map[string]string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		key = strings.ToUpper(key)
		if _, known := out[key]; known || knownKeys[key] {
			out[key] = value
		}
	}
}

var knownKeys = map[string]bool{
	"PORT": true, "MONGOURL": true, "SECRETKEY": true,
	"S3_BUCKET": true, "S3_REGION": true, "S3_KEY": true, "S3_SECRET": true,
	"S3_ENDPOINT": true,
	"STORAGE_PRUNE_REPLACED": true, "MAX_UPLOAD_BYTES": true, "MAX_BODY_BYTES": true,
	"CACHE_TTL": true, "AUTH_RATE_LIMIT": true, "CORS_ORIGINS": true,
	"LOG_TO_MONGO": true,
	"ADMIN_USERNAME": true, "ADMIN_EMAIL": true, "ADMIN_PASSWORD": true,
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(get(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(get(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a key for the lifetime of the process. Intended for tests and
// for CLI flags that shadow file values.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}
