package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pthm/bnfkit/internal/analysis"
	"github.com/pthm/bnfkit/internal/report"
)

const (
	maxWalkDepth = 25

	envPrefix = "BNFKIT"
)

// configNames are the file names auto-discovery looks for, in order.
var configNames = []string{"bnfkit.yaml", "bnfkit.yml"}

// Config represents the bnfkit configuration from bnfkit.yaml.
type Config struct {
	// Grammar is the default grammar document for commands given none.
	Grammar string `mapstructure:"grammar" json:"grammar"`

	Analysis AnalysisConfig `mapstructure:"analysis" json:"analysis"`
	Output   OutputConfig   `mapstructure:"output" json:"output"`
	Log      LogConfig      `mapstructure:"log" json:"log"`

	// tokenAccessorsSet records whether generate_token_accessors came from
	// a config file, the environment or a flag rather than the default.
	tokenAccessorsSet bool
}

// AnalysisConfig holds the analysis options.
type AnalysisConfig struct {
	GenerateTokenAccessors bool   `mapstructure:"generate_token_accessors" json:"generate_token_accessors"`
	NamingCase             string `mapstructure:"naming_case" json:"naming_case"`
	FoldSupertypes         bool   `mapstructure:"fold_supertypes" json:"fold_supertypes"`
	MaxFirstDepth          int    `mapstructure:"max_first_depth" json:"max_first_depth"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format"`
	Color  bool   `mapstructure:"color" json:"color"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	// 1. Set defaults first (lowest precedence)
	setDefaults(v)

	// 2. Set up environment variable binding
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 3. Find and load config file
	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	// 4. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.tokenAccessorsSet = v.InConfig("analysis.generate_token_accessors") ||
		os.Getenv(envPrefix+"_ANALYSIS_GENERATE_TOKEN_ACCESSORS") != ""

	if err := cfg.Validate(); err != nil {
		return nil, configPath, err
	}
	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	defaults := analysis.DefaultConfig()

	v.SetDefault("grammar", "")

	// Analysis defaults
	v.SetDefault("analysis.generate_token_accessors", defaults.GenerateTokenAccessors)
	v.SetDefault("analysis.naming_case", string(defaults.NamingCase))
	v.SetDefault("analysis.fold_supertypes", defaults.FoldSupertypes)
	v.SetDefault("analysis.max_first_depth", defaults.MaxFirstDepth)

	// Output defaults
	v.SetDefault("output.format", report.FormatTable)
	v.SetDefault("output.color", true)

	// Log defaults
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for bnfkit.yaml or bnfkit.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	// Auto-discovery: walk up to .git or maxWalkDepth
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Check for repo boundary (.git file or directory)
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil // No config found, use defaults
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := analysis.ParseNamingCase(c.Analysis.NamingCase); err != nil {
		return fmt.Errorf("analysis.naming_case: %w", err)
	}
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Analysis.MaxFirstDepth < 0 {
		return fmt.Errorf("analysis.max_first_depth must not be negative, got %d", c.Analysis.MaxFirstDepth)
	}
	return nil
}

// SetGenerateTokenAccessors overrides the token accessor switch, as a
// command-line flag does.
func (c *Config) SetGenerateTokenAccessors(v bool) {
	c.Analysis.GenerateTokenAccessors = v
	c.tokenAccessorsSet = true
}

// AnalysisConfig converts the settings into analysis options.
func (c *Config) AnalysisConfig() analysis.Config {
	nc, err := analysis.ParseNamingCase(c.Analysis.NamingCase)
	if err != nil {
		nc = analysis.CaseUpper
	}
	return analysis.Config{
		GenerateTokenAccessors:    c.Analysis.GenerateTokenAccessors,
		GenerateTokenAccessorsSet: c.tokenAccessorsSet,
		NamingCase:                nc,
		FoldSupertypes:            c.Analysis.FoldSupertypes,
		MaxFirstDepth:             c.Analysis.MaxFirstDepth,
	}
}

// ResolvedGrammar returns the grammar path for a command: the argument when
// given, otherwise the configured default.
func (c *Config) ResolvedGrammar(arg string) string {
	if arg != "" {
		return arg
	}
	return c.Grammar
}
