package config

// StorageConfig describes the MinIO/S3 bucket holding user avatars. All
// values default for a local MinIO; only the credentials are required when
// avatar uploads are enabled.
type StorageConfig struct {
	Enabled       bool
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string // base URL avatars are served from, defaults to the endpoint+bucket
	MaxSizeBytes  int64
}

// LoadStorageConfig reads avatar storage settings from the environment.
func LoadStorageConfig() StorageConfig {
	cfg := StorageConfig{
		Enabled:       envBool("AVATAR_STORAGE_ENABLED", false),
		Endpoint:      envStr("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:     envStr("MINIO_ACCESS_KEY", ""),
		SecretKey:     envStr("MINIO_SECRET_KEY", ""),
		Bucket:        envStr("MINIO_BUCKET", "avatars"),
		UseSSL:        envBool("MINIO_USE_SSL", false),
		PublicBaseURL: envStr("AVATAR_PUBLIC_BASE_URL", ""),
		MaxSizeBytes:  int64(envInt("AVATAR_MAX_SIZE_BYTES", 2<<20)),
	}
	if cfg.PublicBaseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		cfg.PublicBaseURL = scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
	}
	return cfg
}
