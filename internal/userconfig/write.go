package userconfig

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/pelletier/go-toml"
)

// Set stores key=value in the user's config file and returns the file's path.
//
// The file written is the one named by $LINKERLAND_CONFIG if set, otherwise
// the highest priority user file that exists, otherwise the lowest priority one.
func Set(key, value string) (string, error) {
	paths := Paths()
	if len(paths) == 0 {
		return "", errors.New("no config file location found")
	}

	dst := paths[0]
	if p := os.Getenv(EnvPath); p != "" {
		dst = p
	} else {
		for i := len(paths) - 1; i >= 0; i-- {
			if _, err := os.Stat(paths[i]); err == nil {
				dst = paths[i]
				break
			}
		}
	}
	return dst, updateConfig(dst, key, value)
}

func updateConfig(dstPath, key, value string) error {
	desc, ok := descs[key]
	if !ok {
		return errors.Errorf("unknown key: %q", key)
	}
	val, err := desc.Type.ParseAndValidate(value)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}

	// Read the existing config.
	// If it doesn't exist it's initialized to an empty config.
	var conf *toml.Tree
	{
		data, err := os.ReadFile(dstPath)
		if err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to read existing config")
		}
		if data != nil {
			conf, err = toml.LoadBytes(data)
		} else {
			conf, err = toml.TreeFromMap(map[string]any{})
		}
		if err != nil {
			return errors.Wrap(err, "failed to parse existing config")
		}
	}

	if n, ok := val.(int); ok {
		// go-toml only knows 64-bit integers.
		val = int64(n)
	}
	conf.SetPath(strings.Split(key, "."), val)

	data, err := conf.Marshal()
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := validateConfig(data); err != nil {
		return errors.Wrap(err, "resulting config is invalid")
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	if err := renameio.WriteFile(dstPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}
