package config // CLI configuration file

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every option key when read from the environment,
// e.g. ALN_REPORT_STATS_DIR.
const EnvPrefix = "ALN_REPORT"

// ErrNameRequired is returned when no report name was given.
var ErrNameRequired = errors.New("report name is required (use --name)")

// Options holds everything one report run needs.
type Options struct {
	Name        string `mapstructure:"name"`
	StatsDir    string `mapstructure:"stats_dir"`
	FlagstatDir string `mapstructure:"flagstat_dir"`
	RefnamesDir string `mapstructure:"refnames_dir"`
	Params      string `mapstructure:"params"`
	Versions    string `mapstructure:"versions"`
	OutDir      string `mapstructure:"out_dir"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	Benchmark   bool   `mapstructure:"benchmark"`
}

// ReportFilename is the name of the HTML file written for this run.
func (o Options) ReportFilename() string {
	return o.Name + "-alignment-report.html"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("out_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("benchmark", false)
}

// Load merges defaults, an optional YAML config file, ALN_REPORT_* environment
// variables and command line flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet, configPath string) (Options, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Options{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	// Keys only reachable through the environment still need to be known to viper
	// for Unmarshal to see them.
	for _, key := range []string{"name", "stats_dir", "flagstat_dir", "refnames_dir", "params", "versions"} {
		if err := v.BindEnv(key); err != nil {
			return Options{}, fmt.Errorf("binding env %s: %w", key, err)
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("decoding options: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate only checks what cannot be left to the loaders.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return ErrNameRequired
	}
	return nil
}
