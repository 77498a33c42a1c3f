package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohmanhakim/nps-nearby/internal/config"
	"github.com/rohmanhakim/nps-nearby/internal/session"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	cacheFile    string
	cacheBackend string
	noErrorCache bool
	apiKey       string
	cooldown     string
	timeout      time.Duration
	userAgent    string
	baseURL      string
	logFile      string
	verbose      bool
	outputDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nps-nearby",
	Short: "Browse national park sites by state and look up places nearby.",
	Long: `nps-nearby is an interactive CLI that lists the national sites of a US state
and, for a chosen site, the places found within a radius of its zipcode.

Every page and API answer is kept in a local response cache, so repeated
lookups are served without touching the network. Live requests are spaced
by a fixed cooldown.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}

		a, err := newApp(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()

		return session.NewSession(a.explorer, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// the first signal cancels ctx; a second one gets the default behaviour
	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// ExecuteWith runs the command tree with explicit arguments and streams.
func ExecuteWith(ctx context.Context, args []string, in io.Reader, out io.Writer, errOut io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, .json or .yaml (e.g., /home/myuser/nps-nearby.yaml)")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "", "response cache file (default cache_NPS.json)")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache-backend", "", "response cache backend: json, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&noErrorCache, "no-error-cache", false, "do not store non-2xx response bodies")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "places API key (falls back to $"+config.APIKeyEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&cooldown, "cooldown", "", "pause before every live request (default 1s)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "root of the park service site")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logfmt records here instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "also log cache hits")
}

// InitConfigWithError builds the config from the config file (or the
// defaults), then the API key environment variable, then the flags.
// A value set by a flag wins over the file, which wins over the environment.
func InitConfigWithError() (config.Config, error) {
	var configBuilder *config.Config
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = &cfg
	} else {
		configBuilder = config.WithDefault()
	}

	if configBuilder.APIKey() == "" {
		if key := os.Getenv(config.APIKeyEnvVar); key != "" {
			configBuilder = configBuilder.WithAPIKey(key)
		}
	}

	if apiKey != "" {
		configBuilder = configBuilder.WithAPIKey(apiKey)
	}

	if cacheFile != "" {
		configBuilder = configBuilder.WithCacheFile(cacheFile)
	}

	if cacheBackend != "" {
		configBuilder = configBuilder.WithCacheBackend(cacheBackend)
	}

	if noErrorCache {
		configBuilder = configBuilder.WithCacheErrorResponses(false)
	}

	if cooldown != "" {
		d, err := time.ParseDuration(cooldown)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: cooldown: %s", config.ErrInvalidConfig, err.Error())
		}
		configBuilder = configBuilder.WithCooldown(d)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if baseURL != "" {
		u, err := parseURLFlag(baseURL)
		if err != nil {
			return config.Config{}, err
		}
		configBuilder = configBuilder.WithBaseURL(u)
	}

	if outputDir != "" {
		configBuilder = configBuilder.WithOutputDir(outputDir)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	cacheFile = ""
	cacheBackend = ""
	noErrorCache = false
	apiKey = ""
	cooldown = ""
	timeout = 0
	userAgent = ""
	baseURL = ""
	logFile = ""
	verbose = false
	outputDir = ""
	exportState = ""
	exportFormat = "md"
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetCacheFileForTest(path string) {
	cacheFile = path
}

func SetCacheBackendForTest(backend string) {
	cacheBackend = backend
}

func SetNoErrorCacheForTest(disabled bool) {
	noErrorCache = disabled
}

func SetAPIKeyForTest(key string) {
	apiKey = key
}

func SetCooldownForTest(d string) {
	cooldown = d
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetBaseURLForTest(u string) {
	baseURL = u
}

func SetOutputDirForTest(dir string) {
	outputDir = dir
}
