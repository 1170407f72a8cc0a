package providers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is a flat set of string settings. Nested YAML keys are joined
// with dots, so
//
//	store:
//	  driver: memory
//
// becomes "store.driver".
type Config map[string]string

// Lookup returns the setting for key. If key itself is not set, its
// environment variable form is tried: upper-cased with dots replaced by
// underscores ("store.driver" becomes "STORE_DRIVER").
func (c Config) Lookup(key string) (string, bool) {
	if v, ok := c[key]; ok {
		return v, true
	}

	v, ok := c[envKey(key)]
	return v, ok
}

// Merge returns a new Config with the settings of others applied over c in
// order.
func (c Config) Merge(others ...Config) Config {
	result := make(Config, len(c))
	for k, v := range c {
		result[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			result[k] = v
		}
	}

	return result
}

// Keys returns the setting keys sorted.
func (c Config) Keys() []string {
	result := make([]string, 0, len(c))
	for k := range c {
		result = append(result, k)
	}
	sort.Strings(result)

	return result
}

func envKey(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// LoadYAML reads a YAML document into a Config. Scalars are kept in their
// string form; sequences are not supported.
func LoadYAML(r io.Reader) (Config, error) {
	var raw map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return Config{}, nil
		}

		return nil, fmt.Errorf("error decoding yaml config: %w", err)
	}

	result := make(Config)
	if err := flatten(result, "", raw); err != nil {
		return nil, err
	}

	return result, nil
}

func flatten(dst Config, prefix string, m map[string]interface{}) error {
	var err error
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch v := v.(type) {
		case map[string]interface{}:
			if e := flatten(dst, key, v); e != nil {
				err = multierror.Append(err, e)
			}

		case []interface{}:
			err = multierror.Append(err, fmt.Errorf("config key %q: sequences are not supported", key))

		case nil:
			dst[key] = ""

		default:
			dst[key] = fmt.Sprint(v)
		}
	}

	return err
}

// LoadDotenv reads the given dotenv files into a Config. Later files win.
// With no paths, ".env" is read.
func LoadDotenv(paths ...string) (Config, error) {
	env, err := godotenv.Read(paths...)
	if err != nil {
		return nil, err
	}

	return Config(env), nil
}

// ParseDotenv reads dotenv formatted settings from r.
func ParseDotenv(r io.Reader) (Config, error) {
	env, err := godotenv.Parse(r)
	if err != nil {
		return nil, err
	}

	return Config(env), nil
}
