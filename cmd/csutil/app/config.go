package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/errors"
)

// EnvPrefix prefixes every environment variable read through viper.
const EnvPrefix = "CSUTIL"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Command defaults
	OrigStrip     int
	ImportedStrip int
	Namespace     string
	Overwrite     bool
	Attribution   string

	// Logging configuration. LogLevel is the --log-level flag; EnvLogLevel
	// comes from the environment and ranks below -v/-q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (CSUTIL_*)
// 3. .env files
// 4. Config file (configFile, or .csutil.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".csutil")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must exist
		// and every config file must parse.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, errors.NewConfigError("config", err.Error(), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		OrigStrip:     v.GetInt("orig_strip"),
		ImportedStrip: v.GetInt("imported_strip"),
		Namespace:     v.GetString("namespace"),
		Overwrite:     v.GetBool("overwrite"),
		Attribution:   v.GetString("attribution"),

		EnvLogLevel: firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat:   firstNonEmpty(v.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput:   firstNonEmpty(v.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("orig_strip", constants.DefaultOrigStripTokens)
	v.SetDefault("imported_strip", constants.DefaultImportedStripTokens)
	v.SetDefault("namespace", constants.AlignmentsNamespace)
	v.SetDefault("overwrite", false)
	v.SetDefault("attribution", constants.Attribution)
}

func (c *Config) validate() error {
	if c.OrigStrip < 0 {
		return errors.NewConfigError("config", "orig_strip must not be negative", nil)
	}
	if c.ImportedStrip < 0 {
		return errors.NewConfigError("config", "imported_strip must not be negative", nil)
	}
	if c.Namespace == "" {
		return errors.NewConfigError("config", "namespace cannot be empty", nil)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// configFlag returns the value of --config in args, if any. The config file
// has to be known before the command tree is built because it supplies
// flag defaults.
func configFlag(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return ""
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
