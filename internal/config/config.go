package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 2380
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "emlakpro"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisURL   = "redis://localhost:6379/0"

	defaultMaxPhotos        = 50
	defaultMaxPixelEdge     = 8000
	defaultNormalizeMaxEdge = 1920
	defaultJPEGQuality      = 82
	defaultUploadTimeoutSec = 60
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	Database       DatabaseRuntimeConfig `yaml:"database"`
	RedisURL       string                `yaml:"redis_url"`
	JWTSecret      string                `yaml:"jwt_secret"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	Admin          AdminConfig           `yaml:"admin"`
	Storage        StorageConfig         `yaml:"storage"`
	Upload         UploadConfig          `yaml:"upload"`
}

type DatabaseRuntimeConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// AdminConfig seeds the panel operator account at startup.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// StorageConfig points at the S3-compatible media store.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"` // optional CDN/custom domain
}

// UploadConfig bounds the image pipeline.
type UploadConfig struct {
	MaxPhotos        int `yaml:"max_photos"`
	MaxPixelEdge     int `yaml:"max_pixel_edge"`
	NormalizeMaxEdge int `yaml:"normalize_max_edge"`
	JPEGQuality      int `yaml:"jpeg_quality"`
	TimeoutSeconds   int `yaml:"timeout_seconds"`
}

// Load reads and validates the YAML config file.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	cfg.normalize()

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Storage.Endpoint == "" || cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage.endpoint and storage.bucket are required in %q", path)
	}
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		return nil, fmt.Errorf("admin.username and admin.password are required in %q", path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		RedisURL: defaultRedisURL,
		Database: DatabaseRuntimeConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
			Loc:      defaultDBLoc,
		},
		Upload: UploadConfig{
			MaxPhotos:        defaultMaxPhotos,
			MaxPixelEdge:     defaultMaxPixelEdge,
			NormalizeMaxEdge: defaultNormalizeMaxEdge,
			JPEGQuality:      defaultJPEGQuality,
			TimeoutSeconds:   defaultUploadTimeoutSec,
		},
	}
}

func (c *AppConfig) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = defaultEnv
	}
	if !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		c.RedisURL = "redis://" + strings.TrimSpace(c.RedisURL)
	}
	if c.Upload.MaxPhotos <= 0 {
		c.Upload.MaxPhotos = defaultMaxPhotos
	}
	if c.Upload.MaxPixelEdge <= 0 {
		c.Upload.MaxPixelEdge = defaultMaxPixelEdge
	}
	if c.Upload.NormalizeMaxEdge <= 0 {
		c.Upload.NormalizeMaxEdge = defaultNormalizeMaxEdge
	}
	if c.Upload.JPEGQuality <= 0 || c.Upload.JPEGQuality > 100 {
		c.Upload.JPEGQuality = defaultJPEGQuality
	}
	if c.Upload.TimeoutSeconds <= 0 {
		c.Upload.TimeoutSeconds = defaultUploadTimeoutSec
	}
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
}

// DSN returns the MySQL DSN, building one from parts when not given verbatim.
func (c DatabaseRuntimeConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	host := c.Host
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	charset := c.Charset
	if charset == "" {
		charset = defaultDBCharset
	}
	loc := c.Loc
	if loc == "" {
		loc = defaultDBLoc
	}

	params := neturl.Values{}
	params.Set("charset", charset)
	params.Set("parseTime", "true")
	params.Set("loc", loc)

	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		c.User, c.Password,
		net.JoinHostPort(host, strconv.Itoa(port)),
		c.Name, params.Encode())
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}
