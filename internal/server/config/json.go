package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/memorylane/internal/flagx"
	"github.com/dmitrijs2005/memorylane/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "720h" or
// integer nanoseconds. Absent keys leave the current value alone.
type JsonConfig struct {
	EndpointAddrHTTP        string          `json:"endpoint_addr_http"`
	RecordBackend           string          `json:"record_backend"`
	AssetBackend            string          `json:"asset_backend"`
	DatabaseDSN             string          `json:"database_dsn"`
	MutationSecret          string          `json:"mutation_secret"`
	MutationSecretHash      string          `json:"mutation_secret_hash"`
	SessionKey              string          `json:"session_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	SecureCookie            *bool           `json:"secure_cookie"`
	AllowedOrigins          []string        `json:"allowed_origins"`
	MaxUploadSize           int64           `json:"max_upload_size"`
	S3AccessKey             string          `json:"s3_access_key"`
	S3SecretKey             string          `json:"s3_secret_key"`
	S3Bucket                string          `json:"s3_bucket"`
	S3Region                string          `json:"s3_region"`
	S3BaseEndpoint          string          `json:"s3_base_endpoint"`
	S3PublicBaseURL         string          `json:"s3_public_base_url"`
	SupabaseURL             string          `json:"supabase_url"`
	SupabaseKey             string          `json:"supabase_key"`
	SupabaseBucket          string          `json:"supabase_bucket"`
	LogFormat               string          `json:"log_format"`
	TimeZone                string          `json:"time_zone"`
}

// parseJson loads configuration values from the file named by -c or
// -config. Without either flag nothing is loaded. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.RecordBackend, c.RecordBackend)
	setString(&config.AssetBackend, c.AssetBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MutationSecret, c.MutationSecret)
	setString(&config.MutationSecretHash, c.MutationSecretHash)
	setString(&config.SessionKey, c.SessionKey)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.SecureCookie != nil {
		config.SecureCookie = *c.SecureCookie
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.SupabaseURL, c.SupabaseURL)
	setString(&config.SupabaseKey, c.SupabaseKey)
	setString(&config.SupabaseBucket, c.SupabaseBucket)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.TimeZone, c.TimeZone)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
