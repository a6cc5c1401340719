package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"goyave.dev/emailvalidator/util/errors"
)

type readFunc func(string) (map[string]any, error)

type unmarshalFunc func([]byte, any) error

var (
	unmarshalJSON unmarshalFunc = json.Unmarshal
	unmarshalYAML unmarshalFunc = yaml.Unmarshal
	unmarshalTOML unmarshalFunc = toml.Unmarshal
)

func readConfigFile(file string) (map[string]any, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.New(err)
	}
	return decode(unmarshalerFor(file), data)
}

func readString(unmarshal unmarshalFunc) readFunc {
	return func(str string) (map[string]any, error) {
		return decode(unmarshal, []byte(str))
	}
}

func unmarshalerFor(file string) unmarshalFunc {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return unmarshalYAML
	case ".toml":
		return unmarshalTOML
	default:
		return unmarshalJSON
	}
}

func decode(unmarshal unmarshalFunc, data []byte) (map[string]any, error) {
	conf := map[string]any{}
	if err := unmarshal(data, &conf); err != nil {
		return nil, errors.New(err)
	}
	return conf, nil
}
