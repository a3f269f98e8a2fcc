package config // package config loads application configuration from environment variables

import (
	"time"
)

// Config holds all runtime configuration values. Every field maps to an
// environment variable and falls back to a development default: a bare
// `go run` works out of the box, production overrides everything through
// the environment.
type Config struct {
	Env  string // application environment (dev/test/prod)
	Port string // HTTP port to listen on

	JWTSecret   string        // secret used to sign JWTs
	AccessTTL   time.Duration // access token lifetime
	RefreshTTL  time.Duration // refresh token lifetime
	PurchaseTTL time.Duration // legacy purchase token validity window
	BcryptCost  int           // bcrypt cost for password hashing

	// Optional MySQL backing for the user store. When DBHost is empty the
	// service runs on the in-memory store.
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// File upload limits.
	UploadDir      string
	MaxTotalSizeMB int64

	// Payment page assets.
	QRCodeURL string
}

// AllowedExtensions lists the upload file types the service accepts.
var AllowedExtensions = map[string]bool{
	"pdf": true, "docx": true, "jpg": true, "jpeg": true, "png": true, "heic": true,
}

// Load reads configuration from the environment. Defaults match the
// historical deployment: 7-day access tokens, 30-day refresh tokens and a
// 7-day purchase token window.
func Load() Config {
	return Config{
		Env:            envStr("APP_ENV", "development"),
		Port:           envStr("APP_PORT", "5000"),
		JWTSecret:      envStr("JWT_SECRET_KEY", "jwt-secret-key-change-in-production"),
		AccessTTL:      envDur("ACCESS_TOKEN_TTL", 7*24*time.Hour),
		RefreshTTL:     envDur("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		PurchaseTTL:    envDur("PURCHASE_TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		DBUser:         envStr("DB_USER", ""),
		DBPass:         envStr("DB_PASS", ""),
		DBHost:         envStr("DB_HOST", ""),
		DBPort:         envStr("DB_PORT", "3306"),
		DBName:         envStr("DB_NAME", "obsicat"),
		UploadDir:      envStr("UPLOAD_FOLDER", "uploads"),
		MaxTotalSizeMB: int64(envInt("MAX_TOTAL_SIZE_MB", 150)),
		QRCodeURL:      envStr("QR_CODE_URL", "/static/images/weixin_qrcode.png"),
	}
}
