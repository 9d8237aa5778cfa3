package userconfig

import (
	"io/fs"
	"os"
	"os/user"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPath names an extra config file loaded after the user's own files.
const EnvPath = "LINKERLAND_CONFIG"

// Load reads the user's configuration. Keys missing from every file take
// their default value.
func Load() (*Config, error) {
	return newInstance(Paths()...)
}

// Paths returns the config files Load reads, lowest priority first.
// They need not exist.
func Paths() []string {
	var paths []string

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome != "" {
		paths = append(paths, filepath.Join(configHome, "linkerland", "config"))
	}

	if u, err := user.Current(); err == nil {
		if configHome == "" {
			paths = append(paths, filepath.Join(u.HomeDir, ".config", "linkerland", "config"))
		}
		paths = append(paths, filepath.Join(u.HomeDir, ".linkerlandrc"))
	}

	if p := os.Getenv(EnvPath); p != "" {
		paths = append(paths, p)
	}
	return paths
}

var tomlParser = toml.Parser()

func newInstance(paths ...string) (*Config, error) {
	k := koanf.New(".")
	for key, desc := range descs {
		if desc.Type.Default != nil {
			if err := k.Set(key, *desc.Type.Default); err != nil {
				return nil, errors.Wrapf(err, "set default for %s", key)
			}
		}
	}

	for _, path := range paths {
		f := file.Provider(path)
		err := k.Load(f, tomlParser)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "unable to parse config file %s", path)
		}
	}

	cfg := &Config{}
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag:       "koanf",
		FlatPaths: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(data []byte) error {
	k := koanf.New(".")
	return k.Load(rawbytes.Provider(data), tomlParser)
}
