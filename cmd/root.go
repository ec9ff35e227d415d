package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/search-calculator/internal/advisory"
	"github.com/spigell/search-calculator/internal/ai"
	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/enrichment"
	"github.com/spigell/search-calculator/internal/server"
)

const (
	app       = "search-calculator"
	envPrefix = "SEARCH_CALC"
)

type Config struct {
	Data       *DataConfig       `mapstructure:"data"`
	Server     server.Config     `mapstructure:"server"`
	Enrichment *EnrichmentConfig `mapstructure:"enrichment"`
	Advisory   *advisory.Config  `mapstructure:"advisory"`
}

// DataConfig points at optional YAML files replacing the embedded tables.
type DataConfig struct {
	Benchmarks string `mapstructure:"benchmarks"`
	Regions    string `mapstructure:"regions"`
}

type EnrichmentConfig struct {
	enrichment.Config `mapstructure:",squash"`

	Enabled   bool            `mapstructure:"enabled"`
	Gemini    *ProviderConfig `mapstructure:"gemini"`
	Anthropic *ProviderConfig `mapstructure:"anthropic"`
}

type ProviderConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "search-calculator estimates how hard a private-service search will be to fill",
		Long: "search-calculator scores household and family-office searches against market benchmarks,\n" +
			"projects what-if scenarios, compares budget ranges and serves the same analysis over HTTP.",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is search-calculator.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	srv := server.DefaultConfig()
	v.SetDefault("server.port", srv.Port)
	v.SetDefault("server.allowed-origins", srv.AllowedOrigins)
	v.SetDefault("server.rate-per-minute", srv.RatePerMinute)
	v.SetDefault("server.max-body-bytes", srv.MaxBodyBytes)
	v.SetDefault("server.shutdown-timeout", srv.ShutdownTimeout)

	v.SetDefault("enrichment.enabled", false)
	v.SetDefault("enrichment.provider", ai.ProviderGemini)
	v.SetDefault("enrichment.timeout", enrichment.DefaultTimeout)
	v.SetDefault("enrichment.max-retries", 1)
	// Nested keys need a default so AutomaticEnv can see them.
	for _, provider := range []string{ai.ProviderGemini, ai.ProviderAnthropic} {
		v.SetDefault("enrichment."+provider+".api-key", "")
		v.SetDefault("enrichment."+provider+".api-key-file", "")
		v.SetDefault("enrichment."+provider+".model", "")
	}

	v.SetDefault("data.benchmarks", "")
	v.SetDefault("data.regions", "")

	v.SetDefault("advisory.disabled", []string{})
	v.SetDefault("advisory.below-market-ratio", advisory.DefaultConfig().BelowMarketRatio)
}

func initConfig() {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit --config the embedded defaults are enough.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, eris.Wrap(err, "decoding config")
	}
	if config == nil {
		config = &Config{}
	}
	if config.Data == nil {
		config.Data = &DataConfig{}
	}
	if config.Enrichment == nil {
		config.Enrichment = &EnrichmentConfig{}
	}
	if config.Advisory == nil {
		config.Advisory = advisory.DefaultConfig()
	}

	return config, nil
}

// scoringWeights overlays the optional scoring section on the production weights.
func scoringWeights(v *viper.Viper) (engine.Weights, error) {
	w := engine.DefaultWeights()
	if !v.IsSet("scoring") {
		return w, nil
	}
	if err := v.UnmarshalKey("scoring", &w); err != nil {
		return w, eris.Wrap(err, "decoding scoring weights")
	}
	if err := engine.ValidateWeights(w); err != nil {
		return w, eris.Wrap(err, "invalid scoring weights")
	}
	return w, nil
}
