package config

import (
	"os"
	"strings"
	"time"
)

// Config agrupa toda la configuración del servidor.
// Todo viene de env vars con fallbacks locales (sin credenciales reales en el código).
type Config struct {
	Addr      string
	MongoURI  string
	MongoDB   string
	JWTSecret string
	TokenTTL  time.Duration

	UploadDir string

	// Proveedor de geocoding para el mapa del formulario de rescate.
	GeocoderBaseURL string

	LogLevel  string
	LogFormat string

	// Seed de cuentas admin al arrancar (true salvo SEED_ADMINS=false).
	SeedAdmins bool
}

func Load() Config {
	return Config{
		Addr:            ":" + getEnv("PORT", "8080"),
		MongoURI:        getEnv("MONGODB_URI", ""), // vacío => repos in-memory (modo dev)
		MongoDB:         getEnv("MONGODB_DB", "taara"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-only-secret"),
		TokenTTL:        time.Hour,
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		GeocoderBaseURL: getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		SeedAdmins:      !strings.EqualFold(getEnv("SEED_ADMINS", "true"), "false"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
