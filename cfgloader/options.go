package cfgloader

// Options holds configuration options for Load and MustLoad.
type Options struct {
	// Silent disables printing the loaded config.
	Silent bool

	// EnvOnly skips the yaml file and builds the config from defaults and
	// environment variables only. Function bundles usually ship without
	// config files and receive their settings through the environment.
	EnvOnly bool

	// Dir is the directory holding ${ENVIRONMENT}.yaml files.
	Dir string

	// EnvPrefix is prepended, with an underscore, to every environment variable name.
	EnvPrefix string
}

// Option is a functional option for configuring MustLoad behavior.
type Option func(*Options)

// WithSilent disables config logging to stdout.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithEnvOnly loads the config from environment variables only.
func WithEnvOnly() Option {
	return func(o *Options) {
		o.EnvOnly = true
	}
}

// WithDir overrides the config directory, "./config" by default.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

// WithEnvPrefix namespaces the environment variables read by the loader,
// e.g. prefix "ORDERS" reads ORDERS_LOG_LEVEL for log.level.
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) {
		o.EnvPrefix = prefix
	}
}

func buildOptions(opts []Option) Options {
	o := Options{Dir: defaultDir}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
