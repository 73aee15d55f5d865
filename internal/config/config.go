// Package config loads blocktag settings from flags, environment and an
// optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/grahms/blocktag"
)

// EnvPrefix is prepended to every environment variable, e.g. BLOCKTAG_GOLD.
const EnvPrefix = "BLOCKTAG"

// FileName is the config file name looked up in the working and home
// directories.
const FileName = ".blocktag"

// Config is the resolved configuration of one run.
type Config struct {
	Instructions string
	Gold         string

	Results string
	Tokens  string
	Bigrams string

	Denominator blocktag.Denominator
	Division    blocktag.DivisionPolicy
	Validate    bool

	HistoryEnabled bool
	HistoryPath    string

	Debug   bool
	LogFile string
	Format  string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("instructions", "instructions.txt")
	v.SetDefault("gold", "gold_standard.csv")
	v.SetDefault("output.results", "results.csv")
	v.SetDefault("output.tokens", "tokens.csv")
	v.SetDefault("output.bigrams", "bigrams.csv")
	v.SetDefault("scoring.denominator", "reference")
	v.SetDefault("scoring.division", "guarded")
	v.SetDefault("scoring.validate", false)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "blocktag.db")
	v.SetDefault("debug", false)
	v.SetDefault("log.file", "")
	v.SetDefault("format", "text")
}

// Init prepares v: defaults, env binding and the config file. cfgFile may be
// empty, in which case .blocktag.yaml is searched in the working directory
// and then $HOME. A missing file is not an error; an explicit one that
// cannot be read is.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (Config, error) {
	den, err := blocktag.ParseDenominator(v.GetString("scoring.denominator"))
	if err != nil {
		return Config{}, err
	}
	div, err := blocktag.ParseDivisionPolicy(v.GetString("scoring.division"))
	if err != nil {
		return Config{}, err
	}
	format := strings.ToLower(v.GetString("format"))
	switch format {
	case "text", "yaml", "json":
	default:
		return Config{}, fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}

	return Config{
		Instructions:   v.GetString("instructions"),
		Gold:           v.GetString("gold"),
		Results:        v.GetString("output.results"),
		Tokens:         v.GetString("output.tokens"),
		Bigrams:        v.GetString("output.bigrams"),
		Denominator:    den,
		Division:       div,
		Validate:       v.GetBool("scoring.validate"),
		HistoryEnabled: v.GetBool("history.enabled"),
		HistoryPath:    expandHome(v.GetString("history.path")),
		Debug:          v.GetBool("debug"),
		LogFile:        v.GetString("log.file"),
		Format:         format,
	}, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
