package config

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/redisutil/pkg/errors"
)

// DefaultResourceName is the well-known resource the pool reads at startup.
const DefaultResourceName = "redis.properties"

// DefaultSearchPaths are the directories searched for the resource, in order.
var DefaultSearchPaths = []string{
	".",
	"./config",
	"./configs",
	"$HOME/.redisutil",
	"/etc/redisutil",
}

// Source produces the raw properties. The pool manager calls it exactly once.
type Source func() (Properties, error)

// FileSource locates name on paths (DefaultSearchPaths when empty) and reads it.
func FileSource(name string, paths ...string) Source {
	return func() (Properties, error) {
		return Load(name, paths...)
	}
}

// StaticSource returns props as-is. Useful for tests and embedding.
func StaticSource(props Properties) Source {
	return func() (Properties, error) {
		return props, nil
	}
}

// Load locates and reads the properties resource.
//
// A name containing a path separator is read directly; a bare name is
// searched for on paths. Environment variables named after the upper-cased
// key with dots replaced by underscores override file values.
func Load(name string, paths ...string) (Properties, error) {
	if name == "" {
		name = DefaultResourceName
	}
	if len(paths) == 0 {
		paths = DefaultSearchPaths
	}

	v := viper.New()
	v.SetConfigType("properties")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		v.SetConfigFile(name)
	} else {
		v.SetConfigName(strings.TrimSuffix(name, filepath.Ext(name)))
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if stderrors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "cannot find redis properties").
				WithDetail("resource", name).
				WithDetail("paths", paths)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "cannot read redis properties").
			WithDetail("resource", name)
	}

	props := make(Properties)
	for _, key := range v.AllKeys() {
		props[strings.ToLower(key)] = v.GetString(key)
	}
	// Keys only present in the environment are not in AllKeys.
	for _, key := range Keys {
		if v.IsSet(key) {
			props[strings.ToLower(key)] = v.GetString(key)
		}
	}
	return props, nil
}

// ParseProperties parses properties text held in memory.
func ParseProperties(data []byte) (Properties, error) {
	p, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "cannot parse redis properties")
	}
	props := make(Properties, p.Len())
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		props[strings.ToLower(key)] = value
	}
	return props, nil
}

// LoadConfig is Load followed by Build.
func LoadConfig(name string, paths ...string) (*Config, error) {
	props, err := Load(name, paths...)
	if err != nil {
		return nil, err
	}
	return Build(props)
}
