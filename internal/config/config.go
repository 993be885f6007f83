package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Optional static bundle dir; when set it backs the question source
	// instead of the papers table.
	BundleDir string

	// Blob storage for uploaded notes/PDFs.
	BlobBasePath string

	// Session snapshot store: sql|file|memory.
	SnapshotStore string
	SnapshotDir   string

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// Report mail channel (disabled when either address is empty).
	AWSRegion       string
	ReportFromEmail string
	ReportToEmail   string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:     mode,
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BundleDir:    os.Getenv("BUNDLE_DIR"),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data/content"),

		SnapshotStore: envOr("SNAPSHOT_STORE", "sql"),
		SnapshotDir:   envOr("SNAPSHOT_DIR", "./data/sessions"),

		AuthSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:  envOr("ADMIN_USER", "admin"),
		// bcrypt of "admin"; override in any real deployment
		AdminPassHash: envOr("ADMIN_PASS_HASH", "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://app.avioprep.example"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),

		AWSRegion:       envOr("AWS_REGION", "us-east-1"),
		ReportFromEmail: os.Getenv("REPORT_FROM_EMAIL"),
		ReportToEmail:   os.Getenv("REPORT_TO_EMAIL"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
