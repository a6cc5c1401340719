package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"goyave.dev/emailvalidator/util/errors"
)

type object map[string]any

// Config structure holding a configuration that should be used for a single
// validator setup, CLI run or audit.
//
// This structure is not protected for safe concurrent access in order to increase
// performance. Therefore, you should never use the `Set()` function when the configuration
// is already in use by other goroutines.
type Config struct {
	config object
}

// Error returned when the configuration could not
// be loaded or is invalid.
// Can be unwraped to get the original error.
type Error struct {
	err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Config error: %s", e.err.Error())
}

func (e *Error) Unwrap() error {
	return e.err
}

// LoadDefault loads default config.
func LoadDefault() *Config {
	cfg := make(object, len(configDefaults))
	loadDefaults(configDefaults, cfg)
	return &Config{
		config: cfg,
	}
}

// Load loads the config file in the current working directory.
// If the "GOYAVE_ENV" env variable is set, the config file will be picked like so:
//   - "production": "config.production.json"
//   - "test": "config.test.json"
//   - By default: "config.json"
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads a config file from the given path. The format is picked from
// the file extension: ".yaml" and ".yml" files are read as YAML, ".toml" files
// as TOML and everything else as JSON.
func LoadFrom(path string) (*Config, error) {
	return load(readConfigFile, path)
}

// LoadJSON load a configuration file from raw JSON. Can be used in combination with
// Go's embed directive.
func LoadJSON(cfg string) (*Config, error) {
	return load(readString(unmarshalJSON), cfg)
}

// LoadYAML load a configuration file from raw YAML.
func LoadYAML(cfg string) (*Config, error) {
	return load(readString(unmarshalYAML), cfg)
}

// LoadTOML load a configuration file from raw TOML.
func LoadTOML(cfg string) (*Config, error) {
	return load(readString(unmarshalTOML), cfg)
}

func load(readFunc readFunc, source string) (*Config, error) {
	cfg := make(object, len(configDefaults))
	loadDefaults(configDefaults, cfg)

	conf, err := readFunc(source)
	if err != nil {
		return nil, &Error{err}
	}

	if err := override(conf, cfg); err != nil {
		return nil, &Error{err}
	}

	if err := cfg.validate(""); err != nil {
		return nil, &Error{err}
	}

	return &Config{
		config: cfg,
	}, nil
}

func getConfigFilePath() string {
	switch strings.ToLower(os.Getenv("GOYAVE_ENV")) {
	case "test":
		return "config.test.json"
	case "production":
		return "config.production.json"
	default:
		return "config.json"
	}
}

func override(src map[string]any, dst object) error {
	for k, v := range src {
		if obj, ok := v.(map[string]any); ok {
			if dstObj, ok := dst[k]; !ok {
				dst[k] = make(object, len(obj))
			} else if _, ok := dstObj.(object); !ok {
				return errors.Errorf("Invalid config:\n\t- Cannot override entry %q with a category", k)
			}
			if err := override(obj, dst[k].(object)); err != nil {
				return err
			}
		} else if entry, ok := dst[k]; ok {
			e, ok := entry.(*Entry)
			if !ok {
				return errors.Errorf("Invalid config:\n\t- Cannot override category %q with an entry", k)
			}
			e.Value = v
		} else {
			dst[k] = makeEntryFromValue(v)
		}
	}
	return nil
}

func (o object) validate(key string) error {
	if messages := o.collectErrors(key); len(messages) > 0 {
		slices.Sort(messages)
		return errors.New("Invalid config:\n\t- " + strings.Join(messages, "\n\t- "))
	}
	return nil
}

func (o object) collectErrors(key string) []string {
	messages := []string{}
	for entryKey, entry := range o {
		subKey := entryKey
		if key != "" {
			subKey = key + "." + entryKey
		}
		switch e := entry.(type) {
		case object:
			messages = append(messages, e.collectErrors(subKey)...)
		case *Entry:
			if err := e.validate(subKey); err != nil {
				messages = append(messages, err.Error())
			}
		}
	}
	return messages
}

// Get a config entry using a dot-separated path.
// Panics if the entry doesn't exist.
func (c *Config) Get(key string) any {
	if val, ok := c.get(key); ok {
		return val
	}

	panic(errors.NewSkip(fmt.Sprintf("Config entry \"%s\" doesn't exist", key), 3))
}

func (c *Config) get(key string) (any, bool) {
	currentCategory := c.config
	rest := key
	for {
		path, next, more := strings.Cut(rest, ".")
		entry, ok := currentCategory[path]
		if !ok {
			return nil, false
		}

		category, isCategory := entry.(object)
		if !more {
			if isCategory {
				return nil, false
			}
			val := entry.(*Entry).Value
			return val, val != nil // nil means unset
		}
		if !isCategory {
			return nil, false
		}
		currentCategory = category
		rest = next
	}
}

// GetString a config entry as string.
// Panics if entry is not a string or if it doesn't exist.
func (c *Config) GetString(key string) string {
	str, ok := c.Get(key).(string)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("Config entry \"%s\" is not a string", key), 3))
	}
	return str
}

// GetBool a config entry as bool.
// Panics if entry is not a bool or if it doesn't exist.
func (c *Config) GetBool(key string) bool {
	val, ok := c.Get(key).(bool)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("Config entry \"%s\" is not a bool", key), 3))
	}
	return val
}

// GetInt a config entry as int.
// Panics if entry is not an int or if it doesn't exist.
func (c *Config) GetInt(key string) int {
	val, ok := c.Get(key).(int)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("Config entry \"%s\" is not an int", key), 3))
	}
	return val
}

// GetFloat a config entry as float64.
// Panics if entry is not a float64 or if it doesn't exist.
func (c *Config) GetFloat(key string) float64 {
	val, ok := c.Get(key).(float64)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("Config entry \"%s\" is not a float64", key), 3))
	}
	return val
}

// GetStringSlice a config entry as []string.
// Panics if entry is not a string slice or if it doesn't exist.
func (c *Config) GetStringSlice(key string) []string {
	str, ok := c.Get(key).([]string)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("Config entry \"%s\" is not a string slice", key), 3))
	}
	return str
}

// Has check if a config entry exists.
func (c *Config) Has(key string) bool {
	_, ok := c.get(key)
	return ok
}

// Set a config entry.
// The change is temporary and will not be saved.
// Use "nil" to unset a value.
//
//   - A category cannot be replaced with an entry.
//   - An entry cannot be replaced with a category.
//   - New categories can be created with they don't already exist.
//   - New entries can be created if they don't already exist. This new entry
//     will be subsequently validated using the type of its initial value and
//     have an empty slice as authorized values (meaning it can have any value of its type)
//
// Panics and revert changes in case of error.
func (c *Config) Set(key string, value any) {
	category, entryKey, exists := walk(c.config, key)
	if exists {
		entry := category[entryKey].(*Entry)
		previous := entry.Value
		entry.Value = value
		if err := entry.validate(key); err != nil {
			entry.Value = previous
			panic(err)
		}
		category[entryKey] = entry
	} else {
		category[entryKey] = makeEntryFromValue(value)
	}
}

// walk the config using the key. Returns the deepest category, the entry key
// with its path stripped ("app.name" -> "name") and true if the entry already
// exists, false if it's not.
//
// Creates categories if they don't exist.
// Panics if the path is invalid or tries to convert an entry to a category
// or a category to an entry.
func walk(currentCategory object, key string) (object, string, bool) {
	segments := strings.Split(key, ".")
	for _, s := range segments {
		if s == "" {
			panic(errors.NewSkip(fmt.Sprintf("Illegal config key %q", key), 3))
		}
	}

	last := len(segments) - 1
	for i, path := range segments[:last] {
		entry, ok := currentCategory[path]
		if !ok {
			category := make(object, 1)
			currentCategory[path] = category
			currentCategory = category
			continue
		}
		category, ok := entry.(object)
		if !ok {
			panic(errors.NewSkip(fmt.Sprintf("Attempted to add an entry to non-category %q", strings.Join(segments[:i+1], ".")), 3))
		}
		currentCategory = category
	}

	entryKey := segments[last]
	entry, exists := currentCategory[entryKey]
	if exists {
		if _, ok := entry.(object); ok {
			panic(errors.NewSkip(fmt.Sprintf("Attempted to replace the %q category with an entry", key), 3))
		}
	}
	return currentCategory, entryKey, exists
}
