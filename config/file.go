package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// LoadFile reads a config.json (or any format viper supports) at path
// and returns its recognised keys as strings, ready for SeedFromFile.
// A missing file is not an error; it returns an empty map.
func LoadFile(path string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if os.IsNotExist(err) || errors.As(err, &notFound) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	ret := make(map[string]string, len(Defaults))
	for key := range Defaults {
		if v.IsSet(key) {
			ret[key] = v.GetString(key)
		}
	}
	return ret, nil
}
