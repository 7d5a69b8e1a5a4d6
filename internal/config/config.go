package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DefaultFontProvider is the stylesheet endpoint typefaces are loaded from by name.
const DefaultFontProvider = "https://fonts.googleapis.com/css2"

// Config holds all runtime configuration for the site server.
type Config struct {
	Listen         string
	BaseURL        string
	PublicDir      string
	CacheTTL       time.Duration
	CacheMaxSize   int64
	FontFamily     string
	FontProvider   string
	AssemblyURL    string
	MetricsEnabled bool

	cacheMaxSize string
}

// Register binds the serve flags to fs with environment variable fallback.
// Call Validate after fs has been parsed.
func Register(fs *pflag.FlagSet) *Config {
	cfg := &Config{}

	fs.StringVar(&cfg.Listen, "listen", envOr("GENOMEPUZZLE_LISTEN", ":8080"), "Listen address")
	fs.StringVar(&cfg.BaseURL, "base-url", envOr("GENOMEPUZZLE_BASE_URL", ""), "Public base URL of the site")
	fs.StringVar(&cfg.PublicDir, "public-dir", envOr("GENOMEPUZZLE_PUBLIC_DIR", "public"), "Directory of public files served at the site root")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", envDurationOr("GENOMEPUZZLE_CACHE_TTL", time.Minute), "How long public files stay cached")
	fs.StringVar(&cfg.cacheMaxSize, "cache-max-size", envOr("GENOMEPUZZLE_CACHE_MAX_SIZE", "16MB"), "Max public file cache size (e.g. 16MB)")
	fs.StringVar(&cfg.FontFamily, "font-family", envOr("GENOMEPUZZLE_FONT_FAMILY", "Newsreader"), "Body typeface, loaded by name")
	fs.StringVar(&cfg.FontProvider, "font-provider", envOr("GENOMEPUZZLE_FONT_PROVIDER", DefaultFontProvider), "Font stylesheet endpoint (empty disables remote fonts)")
	fs.StringVar(&cfg.AssemblyURL, "assembly-url", envOr("GENOMEPUZZLE_ASSEMBLY_URL", ""), "Where /assembly redirects to (404 if empty)")
	fs.BoolVar(&cfg.MetricsEnabled, "metrics", envBoolOr("GENOMEPUZZLE_METRICS", true), "Expose Prometheus metrics on /metrics")

	return cfg
}

// Validate checks the parsed flag values and fills derived fields.
func (c *Config) Validate() error {
	var err error
	if c.cacheMaxSize != "" {
		c.CacheMaxSize, err = parseByteSize(c.cacheMaxSize)
		if err != nil {
			return fmt.Errorf("parse cache-max-size: %w", err)
		}
	}

	if c.FontFamily == "" {
		return fmt.Errorf("font-family must not be empty")
	}

	if c.AssemblyURL != "" {
		u, err := url.Parse(c.AssemblyURL)
		if err != nil {
			return fmt.Errorf("parse assembly-url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid assembly-url %q: must be http or https", c.AssemblyURL)
		}
	}

	return nil
}

// Parse reads serve configuration from CLI flags with environment variable fallback.
func Parse(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	cfg := Register(fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Bucket holds object storage credentials for dataset publishing.
type Bucket struct {
	Name            string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
	PublicURL       string
}

// PublishConfig holds configuration for the dataset publisher.
type PublishConfig struct {
	Path        string
	Dotenv      string
	RandomSeed  uint64
	PublicDir   string
	Concurrency int
	DryRun      bool
}

// RegisterPublish binds the publish flags to fs.
func RegisterPublish(fs *pflag.FlagSet) *PublishConfig {
	cfg := &PublishConfig{}

	fs.StringVar(&cfg.Path, "path", envOr("GENOMEPUZZLE_DATASET_PATH", "../genomepuzzle/output_final"), "The directory path to upload files from")
	fs.StringVar(&cfg.Dotenv, "dotenv", envOr("GENOMEPUZZLE_DOTENV", ".r3_config.env"), "dotenv file with bucket credentials")
	fs.Uint64Var(&cfg.RandomSeed, "random-seed", 42, "Seed for the published answer sheet name")
	fs.StringVar(&cfg.PublicDir, "public-dir", envOr("GENOMEPUZZLE_PUBLIC_DIR", "public"), "Where file_details.json and download scripts are written")
	fs.IntVar(&cfg.Concurrency, "concurrency", 4, "Parallel uploads")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Skip bucket traffic, only write local files")

	return cfg
}

// Validate checks publish flag values.
func (c *PublishConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path must not be empty")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency %d: must be at least 1", c.Concurrency)
	}
	return nil
}

// LoadBucket reads bucket credentials from the dotenv file, falling back to
// the process environment for keys the file does not set.
func (c *PublishConfig) LoadBucket() (*Bucket, error) {
	vars, err := godotenv.Read(c.Dotenv)
	if err != nil {
		return nil, fmt.Errorf("could not load environment variables from %s: %w", c.Dotenv, err)
	}

	get := func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return os.Getenv(key)
	}

	b := &Bucket{
		Name:            get("BUCKET_NAME"),
		AccessKeyID:     get("ACCESS_KEY_ID"),
		SecretAccessKey: get("SECRET_ACCESS_KEY"),
		EndpointURL:     get("ENDPOINT_URL"),
		PublicURL:       strings.TrimRight(get("PUBLIC_URL"), "/"),
	}

	var missing []string
	for key, v := range map[string]string{
		"BUCKET_NAME":       b.Name,
		"ACCESS_KEY_ID":     b.AccessKeyID,
		"SECRET_ACCESS_KEY": b.SecretAccessKey,
		"ENDPOINT_URL":      b.EndpointURL,
	} {
		if v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return b, nil
}

// ErrMissingCredentials reports unset bucket variables.
var ErrMissingCredentials = errors.New("one or more bucket variables are not set")

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
		return v == "yes"
	}
	return fallback
}

// parseByteSize parses a human-readable byte size like "16MB", "5KB", "1GB".
func parseByteSize(s string) (int64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("empty size string")
	}

	i := 0
	for i < len(s) && ((s[i] >= '0' && s[i] <= '9') || s[i] == '.') {
		i++
	}

	numStr := s[:i]
	unit := s[i:]

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}

	var multiplier int64
	switch unit {
	case "", "B":
		multiplier = 1
	case "KB", "kb":
		multiplier = 1024
	case "MB", "mb":
		multiplier = 1024 * 1024
	case "GB", "gb":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size unit %q in %q", unit, s)
	}

	return int64(num * float64(multiplier)), nil
}
