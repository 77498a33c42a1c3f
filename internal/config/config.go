package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/nps-nearby/pkg/fileutil"
	"gopkg.in/yaml.v3"
)

// APIKeyEnvVar is consulted for the places API key when neither a flag nor
// the config file provides one.
const APIKeyEnvVar = "NPS_NEARBY_API_KEY"

// Cache backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	//===============
	// Sources
	//===============
	// Root of the park service site. The state index lives at <baseURL>/index.htm
	baseURL url.URL
	// Radius search endpoint of the places API
	placesEndpoint url.URL
	// Credential sent as the `key` query parameter of places requests
	apiKey string
	// Search radius in miles around the site zipcode
	radius int
	// Maximum number of places returned per lookup
	maxMatches int

	//===============
	// Cache
	//===============
	// Backing file of the response cache
	cacheFile string
	// One of json, sqlite, memory
	cacheBackend string
	// Whether non-2xx bodies are stored like successful ones
	cacheErrorResponses bool

	//===============
	// Politeness
	//===============
	// Fixed pause before every live request
	cooldown time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	timeout time.Duration
	// Identifying headers sent with every live request
	userAgent  string
	from       string
	courseInfo string

	//===============
	// Output
	//===============
	// Directory that receives exported reports
	outputDir string
}

type configDTO struct {
	BaseURL             string `json:"baseUrl,omitempty" yaml:"base-url,omitempty"`
	PlacesEndpoint      string `json:"placesEndpoint,omitempty" yaml:"places-endpoint,omitempty"`
	APIKey              string `json:"apiKey,omitempty" yaml:"api-key,omitempty"`
	Radius              int    `json:"radius,omitempty" yaml:"radius,omitempty"`
	MaxMatches          int    `json:"maxMatches,omitempty" yaml:"max-matches,omitempty"`
	CacheFile           string `json:"cacheFile,omitempty" yaml:"cache-file,omitempty"`
	CacheBackend        string `json:"cacheBackend,omitempty" yaml:"cache-backend,omitempty"`
	CacheErrorResponses *bool  `json:"cacheErrorResponses,omitempty" yaml:"cache-error-responses,omitempty"`
	Cooldown            string `json:"cooldown,omitempty" yaml:"cooldown,omitempty"`
	Timeout             string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	UserAgent           string `json:"userAgent,omitempty" yaml:"user-agent,omitempty"`
	From                string `json:"from,omitempty" yaml:"from,omitempty"`
	CourseInfo          string `json:"courseInfo,omitempty" yaml:"course-info,omitempty"`
	OutputDir           string `json:"outputDir,omitempty" yaml:"output-dir,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	// Only override what the file actually sets
	if dto.BaseURL != "" {
		u, err := url.Parse(dto.BaseURL)
		if err != nil {
			return Config{}, fmt.Errorf("%w: baseUrl: %s", ErrInvalidConfig, err.Error())
		}
		cfg.WithBaseURL(*u)
	}
	if dto.PlacesEndpoint != "" {
		u, err := url.Parse(dto.PlacesEndpoint)
		if err != nil {
			return Config{}, fmt.Errorf("%w: placesEndpoint: %s", ErrInvalidConfig, err.Error())
		}
		cfg.WithPlacesEndpoint(*u)
	}
	if dto.APIKey != "" {
		cfg.WithAPIKey(dto.APIKey)
	}
	if dto.Radius != 0 {
		cfg.WithRadius(dto.Radius)
	}
	if dto.MaxMatches != 0 {
		cfg.WithMaxMatches(dto.MaxMatches)
	}
	if dto.CacheFile != "" {
		cfg.WithCacheFile(dto.CacheFile)
	}
	if dto.CacheBackend != "" {
		cfg.WithCacheBackend(dto.CacheBackend)
	}
	if dto.CacheErrorResponses != nil {
		cfg.WithCacheErrorResponses(*dto.CacheErrorResponses)
	}
	if dto.Cooldown != "" {
		d, err := time.ParseDuration(dto.Cooldown)
		if err != nil {
			return Config{}, fmt.Errorf("%w: cooldown: %s", ErrInvalidConfig, err.Error())
		}
		cfg.WithCooldown(d)
	}
	if dto.Timeout != "" {
		d, err := time.ParseDuration(dto.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("%w: timeout: %s", ErrInvalidConfig, err.Error())
		}
		cfg.WithTimeout(d)
	}
	if dto.UserAgent != "" {
		cfg.WithUserAgent(dto.UserAgent)
	}
	if dto.From != "" {
		cfg.WithFrom(dto.From)
	}
	if dto.CourseInfo != "" {
		cfg.WithCourseInfo(dto.CourseInfo)
	}
	if dto.OutputDir != "" {
		cfg.WithOutputDir(dto.OutputDir)
	}

	return cfg.Build()
}

// WithConfigFile loads a config file. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON. ${VAR} references are expanded
// from the environment before decoding.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	expanded := []byte(os.ExpandEnv(string(configContent)))

	cfgDTO := configDTO{}
	switch strings.ToLower(fileutil.GetFileExtension(path)) {
	case "yaml", "yml":
		err = yaml.Unmarshal(expanded, &cfgDTO)
	default:
		err = json.Unmarshal(expanded, &cfgDTO)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a Config pointing at the public park service site and
// the radius search endpoint, with the one second cooldown and a JSON cache
// file in the working directory.
func WithDefault() *Config {
	defaultConfig := Config{
		baseURL: url.URL{
			Scheme: "https",
			Host:   "www.nps.gov",
		},
		placesEndpoint: url.URL{
			Scheme: "http",
			Host:   "www.mapquestapi.com",
			Path:   "/search/v2/radius",
		},
		apiKey:              "",
		radius:              10,
		maxMatches:          10,
		cacheFile:           "cache_NPS.json",
		cacheBackend:        BackendJSON,
		cacheErrorResponses: true,
		cooldown:            time.Second,
		timeout:             30 * time.Second,
		userAgent:           "UMSI 507 Course Project 2 - Python Web Scraping",
		from:                "nps-nearby@example.org",
		courseInfo:          "https://www.si.umich.edu/programs/courses/507",
		outputDir:           "output",
	}
	return &defaultConfig
}

func (c *Config) WithBaseURL(u url.URL) *Config {
	c.baseURL = u
	return c
}

func (c *Config) WithPlacesEndpoint(u url.URL) *Config {
	c.placesEndpoint = u
	return c
}

func (c *Config) WithAPIKey(key string) *Config {
	c.apiKey = key
	return c
}

func (c *Config) WithRadius(radius int) *Config {
	c.radius = radius
	return c
}

func (c *Config) WithMaxMatches(maxMatches int) *Config {
	c.maxMatches = maxMatches
	return c
}

func (c *Config) WithCacheFile(path string) *Config {
	c.cacheFile = path
	return c
}

func (c *Config) WithCacheBackend(backend string) *Config {
	c.cacheBackend = strings.ToLower(strings.TrimSpace(backend))
	return c
}

func (c *Config) WithCacheErrorResponses(enabled bool) *Config {
	c.cacheErrorResponses = enabled
	return c
}

func (c *Config) WithCooldown(d time.Duration) *Config {
	c.cooldown = d
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.timeout = d
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithFrom(from string) *Config {
	c.from = from
	return c
}

func (c *Config) WithCourseInfo(info string) *Config {
	c.courseInfo = info
	return c
}

func (c *Config) WithOutputDir(dir string) *Config {
	c.outputDir = dir
	return c
}

func (c *Config) Build() (Config, error) {
	if err := validateEndpoint("baseUrl", c.baseURL); err != nil {
		return Config{}, err
	}
	if err := validateEndpoint("placesEndpoint", c.placesEndpoint); err != nil {
		return Config{}, err
	}
	if c.cooldown < 0 {
		return Config{}, fmt.Errorf("%w: cooldown cannot be negative", ErrInvalidConfig)
	}
	if c.timeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.radius <= 0 {
		return Config{}, fmt.Errorf("%w: radius must be positive", ErrInvalidConfig)
	}
	if c.maxMatches <= 0 {
		return Config{}, fmt.Errorf("%w: maxMatches must be positive", ErrInvalidConfig)
	}
	switch c.cacheBackend {
	case BackendJSON, BackendSQLite:
		if c.cacheFile == "" {
			return Config{}, fmt.Errorf("%w: cacheFile cannot be empty for the %s backend", ErrInvalidConfig, c.cacheBackend)
		}
	case BackendMemory:
	default:
		return Config{}, fmt.Errorf("%w: unknown cacheBackend %q", ErrInvalidConfig, c.cacheBackend)
	}
	return *c, nil
}

func validateEndpoint(field string, u url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s must use http or https, got %q", ErrInvalidConfig, field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute URL", ErrInvalidConfig, field)
	}
	return nil
}

func (c Config) BaseURL() url.URL {
	return c.baseURL
}

func (c Config) PlacesEndpoint() url.URL {
	return c.placesEndpoint
}

func (c Config) APIKey() string {
	return c.apiKey
}

func (c Config) Radius() int {
	return c.radius
}

func (c Config) MaxMatches() int {
	return c.maxMatches
}

func (c Config) CacheFile() string {
	return c.cacheFile
}

func (c Config) CacheBackend() string {
	return c.cacheBackend
}

func (c Config) CacheErrorResponses() bool {
	return c.cacheErrorResponses
}

func (c Config) Cooldown() time.Duration {
	return c.cooldown
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) From() string {
	return c.from
}

func (c Config) CourseInfo() string {
	return c.courseInfo
}

func (c Config) OutputDir() string {
	return c.outputDir
}

// Headers returns the identifying headers sent with every live request.
// Empty values are left out.
func (c Config) Headers() map[string]string {
	headers := make(map[string]string, 3)
	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}
	if c.from != "" {
		headers["From"] = c.from
	}
	if c.courseInfo != "" {
		headers["Course-Info"] = c.courseInfo
	}
	return headers
}
