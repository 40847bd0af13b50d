package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes the environment variable of every setting, e.g. LIBRARY_HTTP_ADDR.
	EnvPrefix = "LIBRARY_"

	// ConfigFileEnv names the YAML file when the --config flag is not given.
	ConfigFileEnv = EnvPrefix + "CONFIG"

	ConfigFlag    = "config"
	DefaultDotEnv = ".env"
)

// LookupEnvFunc matches os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// RegisterFlags adds --config and one flag per setting to the flag set.
// Flag defaults mirror Defaults(); only flags that were set on the command line override other sources.
func RegisterFlags(flags *pflag.FlagSet) {
	defaults := Defaults()

	flags.String(ConfigFlag, "", "path to a YAML config file (env "+ConfigFileEnv+")")

	for _, s := range settings() {
		flags.String(s.flagName(), s.get(&defaults), s.usage+" (env "+s.envName()+")")

		if s.isBool {
			flags.Lookup(s.flagName()).NoOptDefVal = "true"
		}
	}
}

// Load reads the configuration from all sources: defaults, the YAML file, the .env file at dotEnvPath
// together with the process environment, and the flags.
// The process environment wins over .env entries; a missing .env file is not an error.
func Load(flags *pflag.FlagSet, dotEnvPath string) (Config, error) {
	dotEnv, err := readDotEnv(dotEnvPath)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}

		value, ok := dotEnv[key]

		return value, ok
	}

	return LoadFrom(flags, lookup)
}

// LoadFrom is Load with an explicit environment.
func LoadFrom(flags *pflag.FlagSet, lookupEnv LookupEnvFunc) (Config, error) {
	cfg := Defaults()

	if path := configFilePath(flags, lookupEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	for _, s := range settings() {
		if value, ok := lookupEnv(s.envName()); ok {
			if err := s.set(&cfg, value); err != nil {
				return Config{}, err
			}
		}
	}

	if flags != nil {
		for _, s := range settings() {
			flag := flags.Lookup(s.flagName())
			if flag == nil || !flag.Changed {
				continue
			}

			if err := s.set(&cfg, flag.Value.String()); err != nil {
				return Config{}, err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func configFilePath(flags *pflag.FlagSet, lookupEnv LookupEnvFunc) string {
	if flags != nil {
		if path, err := flags.GetString(ConfigFlag); err == nil && path != "" {
			return path
		}
	}

	if path, ok := lookupEnv(ConfigFileEnv); ok {
		return path
	}

	return ""
}

// loadFile merges a YAML file into the config. Keys missing in the file keep their current value.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrUnreadableConfigFile, err)
	}

	if err = yaml.Unmarshal(data, c); err != nil {
		return errors.Join(ErrUnreadableConfigFile, err)
	}

	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, errors.Join(ErrUnreadableDotEnvFile, err)
	}

	return values, nil
}
