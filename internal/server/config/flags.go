package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-k string   record backend: postgres | supabase
//	-o string   asset backend: s3 | supabase
//	-d string   PostgreSQL DSN
//	-s string   shared mutation secret
//	-j string   session cookie signing key
//	-t int      session cookie validity, minutes (0 = no expiry)
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-w string   public base URL for stored images
//	-l string   Supabase project URL
//	-y string   Supabase service key
//	-m string   Supabase Storage bucket
//	-f string   log format: json | zap
//	-z string   time zone for year grouping
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-k", "-o", "-d", "-s", "-j", "-t", "-u", "-p", "-b", "-g", "-e", "-w", "-l", "-y", "-m", "-f", "-z",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.RecordBackend, "k", config.RecordBackend, "record backend (postgres|supabase)")
	fs.StringVar(&config.AssetBackend, "o", config.AssetBackend, "asset backend (s3|supabase)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MutationSecret, "s", config.MutationSecret, "shared mutation secret")
	fs.StringVar(&config.SessionKey, "j", config.SessionKey, "session cookie key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "w", config.S3PublicBaseURL, "public base URL for images")
	fs.StringVar(&config.SupabaseURL, "l", config.SupabaseURL, "Supabase project URL")
	fs.StringVar(&config.SupabaseKey, "y", config.SupabaseKey, "Supabase service key")
	fs.StringVar(&config.SupabaseBucket, "m", config.SupabaseBucket, "Supabase storage bucket")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|zap)")
	fs.StringVar(&config.TimeZone, "z", config.TimeZone, "time zone")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
}
