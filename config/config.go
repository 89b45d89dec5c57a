package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	TLS_DOMAINS         = ""             // e.g. "example.com,example2.com"
	BIND_ADDRESS        = "0.0.0.0:8080"
	DEBUG_MODE          = true
	CORS_ORIGINS        = "*"            // comma separated
	MYSQL_DSN           = ""             // MySQL will be used if this is set
	POSTGRES_DSN        = ""             // PostgreSQL will be used if MYSQL_DSN is not set and this is
	SQLITE_FILE         = "nikodex.db"   // SQLite is the fallback when no other DSN is configured
	SECRET_KEY          = ""             // HMAC key for access tokens, must be set outside of DEBUG_MODE
	TOKEN_TTL           = 30 * time.Minute
	BOT_SHARED_SECRET   = "" // Empty disables the bot endpoints
	COMMENT_RATE_LIMIT  = 5  // in minutes
	STORAGE_TYPE        = "file"
	IMAGE_DIR           = "images"
	DEFAULT_IMAGE       = "images/default.png"
	MAX_IMAGE_SIZE      = int64(2 * 1024 * 1024)
	MAX_IMAGE_DIMENSION = 2048
	S3_BUCKET           = ""
	S3_REGION           = "us-east-1"
	S3_ENDPOINT         = "" // Custom endpoint for S3 compatible services (MinIO, R2, etc)
	S3_KEY              = ""
	S3_SECRET           = ""
	S3_PREFIX           = "images"
	REDIS_ADDR          = "" // Enables the daily pick lock when set
	REDIS_PASSWORD      = ""
	PICK_TIMEZONE       = "" // Defaults to the server local time zone
	PICK_CRON           = "0 0 0 * * *"
	LOG_LEVEL           = "info"
	LOG_ENCODING        = "" // "console" or "json", derived from DEBUG_MODE when empty
)

// Load reads settings from NIKODEX_* environment variables and, if NIKODEX_CONFIG points to one,
// a YAML file. Anything not provided keeps the defaults above.
func Load() error {
	v := viper.New()
	v.SetEnvPrefix("NIKODEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path := os.Getenv("NIKODEX_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	readString(v, "tls_domains", &TLS_DOMAINS)
	readString(v, "bind_address", &BIND_ADDRESS)
	readBool(v, "debug_mode", &DEBUG_MODE)
	readString(v, "cors_origins", &CORS_ORIGINS)
	readString(v, "mysql_dsn", &MYSQL_DSN)
	readString(v, "postgres_dsn", &POSTGRES_DSN)
	readString(v, "sqlite_file", &SQLITE_FILE)
	readString(v, "secret_key", &SECRET_KEY)
	readDuration(v, "token_ttl", &TOKEN_TTL)
	readString(v, "bot_shared_secret", &BOT_SHARED_SECRET)
	readInt(v, "comment_rate_limit", &COMMENT_RATE_LIMIT)
	readString(v, "storage_type", &STORAGE_TYPE)
	readString(v, "image_dir", &IMAGE_DIR)
	readString(v, "default_image", &DEFAULT_IMAGE)
	readInt64(v, "max_image_size", &MAX_IMAGE_SIZE)
	readInt(v, "max_image_dimension", &MAX_IMAGE_DIMENSION)
	readString(v, "s3_bucket", &S3_BUCKET)
	readString(v, "s3_region", &S3_REGION)
	readString(v, "s3_endpoint", &S3_ENDPOINT)
	readString(v, "s3_key", &S3_KEY)
	readString(v, "s3_secret", &S3_SECRET)
	readString(v, "s3_prefix", &S3_PREFIX)
	readString(v, "redis_addr", &REDIS_ADDR)
	readString(v, "redis_password", &REDIS_PASSWORD)
	readString(v, "pick_timezone", &PICK_TIMEZONE)
	readString(v, "pick_cron", &PICK_CRON)
	readString(v, "log_level", &LOG_LEVEL)
	readString(v, "log_encoding", &LOG_ENCODING)
	return nil
}

// PickLocation is the time zone in which the daily pick rolls over
func PickLocation() *time.Location {
	if PICK_TIMEZONE == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(PICK_TIMEZONE)
	if err != nil {
		return time.Local
	}
	return loc
}

func CommentCooldown() time.Duration {
	return time.Duration(COMMENT_RATE_LIMIT) * time.Minute
}

func readString(v *viper.Viper, name string, value *string) {
	if !v.IsSet(name) {
		return
	}
	if s := v.GetString(name); s != "" {
		*value = s
	}
}

func readBool(v *viper.Viper, name string, value *bool) {
	if !v.IsSet(name) {
		return
	}
	switch strings.ToLower(v.GetString(name)) {
	case "true", "1", "yes", "on":
		*value = true
	case "false", "0", "no", "off":
		*value = false
	}
}

func readInt(v *viper.Viper, name string, value *int) {
	if !v.IsSet(name) || v.GetString(name) == "" {
		return
	}
	*value = v.GetInt(name)
}

func readInt64(v *viper.Viper, name string, value *int64) {
	if !v.IsSet(name) || v.GetString(name) == "" {
		return
	}
	*value = v.GetInt64(name)
}

func readDuration(v *viper.Viper, name string, value *time.Duration) {
	if !v.IsSet(name) || v.GetString(name) == "" {
		return
	}
	if d := v.GetDuration(name); d > 0 {
		*value = d
	}
}
