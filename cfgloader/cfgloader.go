// Package cfgloader provides a simple way to load and validate configuration at the start of an application.
package cfgloader

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"

	defaultDir = "./config"
)

const (
	CodeInvalidTarget      = "CONFIG_INVALID_TARGET"
	CodeInvalidEnvironment = "CONFIG_INVALID_ENVIRONMENT"
	CodeFileNotFound       = "CONFIG_FILE_NOT_FOUND"
	CodeMalformed          = "CONFIG_MALFORMED"
	CodeValidationFailed   = "CONFIG_VALIDATION_FAILED"
)

// MustLoad loads and validates configuration from a YAML file based on the ENVIRONMENT variable.
// The files must be named in the format ${ENVIRONMENT}.yaml and located in the config directory
// at the root of the project, unless WithDir or WithEnvOnly is given.
//
// The configuration struct should use `yaml` struct tags to map fields to the YAML file structure.
// Every field can be overridden by an environment variable named after its yaml path, upper-cased,
// with dots replaced by underscores and prefixed with the WithEnvPrefix value when one is given:
// the field at log.level is read from LOG_LEVEL. This is how function settings usually arrive.
//
// Default values for configuration fields can be set using the `default` struct tag. Defaults are
// applied first, so the YAML file and the environment always win, including explicit zero values
// such as "false" or "0".
//
// Validations are done using the go-playground/validator package.
// See https://pkg.go.dev/github.com/go-playground/validator/v10 for more information.
//
// Example:
//
//	type Config struct {
//	    Region      string `yaml:"region" validate:"required"`  // REGION
//	    Log         struct {
//	        Level string `yaml:"level" default:"info"`          // LOG_LEVEL
//	    } `yaml:"log"`
//	    Development bool   `yaml:"development"`                  // DEVELOPMENT
//	}
//
// MustLoad exits the process when loading fails. Use Load to handle the error.
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		slog.Error(fmt.Sprintf("[cfgloader]: %v", err))
		os.Exit(1)
	}
	return config
}

// Load is MustLoad returning the error instead of exiting.
func Load[T any](opts ...Option) (T, error) {
	var config T
	o := buildOptions(opts)

	if err := ensureStruct(config); err != nil {
		return config, err
	}

	_ = godotenv.Load()

	if err := defaults.Set(&config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeMalformed))
	}

	v := newViper(o.EnvPrefix)

	env := "env"
	if !o.EnvOnly {
		var err error
		env, err = defineEnvironment()
		if err != nil {
			return config, err
		}

		data, err := readConfigFile(buildConfigPath(o.Dir, env))
		if err != nil {
			return config, err
		}

		if err = v.ReadConfig(bytes.NewReader(replaceEnvVars(data))); err != nil {
			return config, errx.Wrap(err, errx.WithCode(CodeMalformed), errx.WithDetails(errx.D{"environment": env}))
		}
	}

	if err := v.Unmarshal(&config, useYAMLTags); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeMalformed), errx.WithDetails(errx.D{"environment": env}))
	}

	if err := validateConfig(&config, env); err != nil {
		return config, err
	}

	if !o.Silent {
		printConfig(config)
	}

	return config, nil
}

// newViper returns a viper instance that resolves every struct field against
// the environment, not only the keys present in the file.
func newViper(envPrefix string) *viper.Viper {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func useYAMLTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
}

func ensureStruct(config any) error {
	if reflect.ValueOf(config).Kind() != reflect.Struct {
		return errx.New("arg config must be a struct, not a pointer",
			errx.WithCode(CodeInvalidTarget),
			errx.WithDetails(errx.D{"type": fmt.Sprintf("%T", config)}),
		)
	}
	return nil
}

func defineEnvironment() (string, error) {
	env := os.Getenv("ENVIRONMENT")
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return "", errx.New(
			"ENVIRONMENT env variable is not set or invalid. Choices are: production, staging, dev, local, test",
			errx.WithCode(CodeInvalidEnvironment),
		)
	}
	return env, nil
}

func buildConfigPath(dir, env string) string {
	return filepath.Join(dir, env+".yaml")
}

func readConfigFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errx.New(
			fmt.Sprintf("config file not found in the path %s - Make sure that the yaml file exists for each environment", path),
			errx.WithCode(CodeFileNotFound),
		)
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}
	return data, nil
}

func replaceEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

func validateConfig(config any, env string) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(config)

	failedFields := make([]string, 0)
	if errs, ok := err.(validator.ValidationErrors); ok { //nolint: errorlint // Using type assertion for validator errors handling
		for _, err := range errs {
			tagErr := err.Tag()
			if err.Param() != "" {
				tagErr += "=" + err.Param()
			}
			failedFields = append(failedFields, fmt.Sprintf("%s: %s", err.Namespace(), tagErr))
		}
	}

	if len(failedFields) > 0 {
		return errx.New(
			fmt.Sprintf("invalid fields in %s config -> %s", env, strings.Join(failedFields, ",  ")),
			errx.WithCode(CodeValidationFailed),
			errx.WithDetails(errx.D{"fields": failedFields}),
		)
	}
	return nil
}
