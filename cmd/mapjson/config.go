package main

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// KeyType names the Go type property names are decoded into.
type KeyType string

const (
	KeyString KeyType = "string"
	KeyInt    KeyType = "int"
	KeyUint   KeyType = "uint"
	KeyBool   KeyType = "bool"
	KeyUUID   KeyType = "uuid"
	KeyTime   KeyType = "time"
)

var keyTypes = []KeyType{KeyString, KeyInt, KeyUint, KeyBool, KeyUUID, KeyTime}

// UnsupportedKeyTypeError denotes a --key-type value that is not known.
type UnsupportedKeyTypeError string

// Error returns the formatted error.
func (str UnsupportedKeyTypeError) Error() string {
	return fmt.Sprintf("unsupported key type %q", string(str))
}

// Config holds the settings of one run.
type Config struct {
	KeyType       KeyType `mapstructure:"key-type"`
	KeepOrder     bool    `mapstructure:"keep-order"`
	Deterministic bool    `mapstructure:"deterministic"`
	Indent        string  `mapstructure:"indent"`
	Output        string  `mapstructure:"output"`
	Dump          bool    `mapstructure:"dump"`
	Verbose       bool    `mapstructure:"verbose"`
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("mapjson", pflag.ContinueOnError)

	flags.String("key-type", string(KeyString), "type of the map keys: string, int, uint, bool, uuid or time")
	flags.Bool("keep-order", false, "keep the input order of the properties")
	flags.Bool("deterministic", false, "sort the properties by name")
	flags.String("indent", "", "indent output with this string")
	flags.StringP("output", "o", "", "write to this file instead of stdout")
	flags.Bool("dump", false, "print the decoded Go value to stderr")
	flags.BoolP("verbose", "v", false, "log converter resolution")
	flags.String("config", "", "config file")

	return flags
}

// loadConfig merges flags, MAPJSON_* environment variables and the optional
// config file. It returns the positional arguments.
func loadConfig(fs afero.Fs, args []string) (Config, []string, error) {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return Config{}, nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix("MAPJSON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, nil, err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(keyTypeHook())); err != nil {
		return Config{}, nil, err
	}

	return cfg, flags.Args(), nil
}

// keyTypeHook validates and normalizes key type names.
func keyTypeHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(KeyType("")) {
			return data, nil
		}

		name := KeyType(strings.ToLower(strings.TrimSpace(data.(string))))
		for _, kt := range keyTypes {
			if kt == name {
				return kt, nil
			}
		}
		return nil, UnsupportedKeyTypeError(name)
	}
}
