package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joshelser/opscenter-autoscaler/scaler"
	"github.com/joshelser/opscenter-autoscaler/scaler/dataset"
	"github.com/joshelser/opscenter-autoscaler/scaler/fleet"
)

// envPrefix namespaces environment overrides, e.g. WH_AUTOSCALER_SEED.
const envPrefix = "WH_AUTOSCALER"

// RunConfig is the resolved configuration of a recommend run.
// Precedence: explicit flag, then environment, then config file, then flag default.
type RunConfig struct {
	Input           string `mapstructure:"input"`
	Output          string `mapstructure:"output"`
	Seed            int64  `mapstructure:"seed"`
	Workers         int    `mapstructure:"workers"`
	Reward          string `mapstructure:"reward"`
	Restart         string `mapstructure:"restart"`
	Prior           string `mapstructure:"prior"`
	OnMalformed     string `mapstructure:"on_malformed"`
	PartitionColumn string `mapstructure:"partition_column"`
	MinSize         string `mapstructure:"min_size"`
	MaxSize         string `mapstructure:"max_size"`
	MetricsFile     string `mapstructure:"metrics_file"`
}

// configKey maps a flag name to its config file and environment key.
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// loadRunConfig resolves a RunConfig from flags, the environment and the
// optional config file. Every flag in flags becomes a config key.
func loadRunConfig(flags *pflag.FlagSet, configFile string) (RunConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(configKey(f.Name), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return RunConfig{}, bindErr
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return RunConfig{}, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	var cfg RunConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// validate checks what the runner cannot: size labels and required paths.
// Size labels may be canonical or short aliases and are canonicalized in place.
func (c *RunConfig) validate() error {
	if c.Input == "" {
		return fmt.Errorf("no input file given")
	}
	if c.PartitionColumn == "" {
		c.PartitionColumn = dataset.DefaultPartitionColumn
	}
	for _, bound := range []*string{&c.MinSize, &c.MaxSize} {
		if *bound == "" {
			continue
		}
		size, err := parseSizeFlag(*bound)
		if err != nil {
			return err
		}
		*bound = size.String()
	}
	return c.fleetOptions().Validate()
}

func (c RunConfig) fleetOptions() fleet.Options {
	return fleet.Options{
		Seed:        c.Seed,
		Workers:     c.Workers,
		Reward:      c.Reward,
		Restart:     c.Restart,
		Prior:       c.Prior,
		OnMalformed: scaler.MalformedPolicy(c.OnMalformed),
		MinSize:     c.MinSize,
		MaxSize:     c.MaxSize,
	}
}

// parseSizeFlag accepts a canonical size label or its short alias.
func parseSizeFlag(s string) (scaler.Size, error) {
	if size, err := scaler.ParseSize(s); err == nil {
		return size, nil
	}
	for size := scaler.Smallest; size <= scaler.Largest; size++ {
		if strings.EqualFold(size.Alias(), s) {
			return size, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", scaler.ErrUnknownSizeLabel, s)
}

// sizeValue is a pflag.Value holding a canonical size label.
// The empty string means "no bound".
type sizeValue string

var _ pflag.Value = (*sizeValue)(nil)

func (s *sizeValue) String() string { return string(*s) }

func (s *sizeValue) Set(raw string) error {
	if raw == "" {
		*s = ""
		return nil
	}
	size, err := parseSizeFlag(raw)
	if err != nil {
		return err
	}
	*s = sizeValue(size.String())
	return nil
}

func (s *sizeValue) Type() string { return "size" }
