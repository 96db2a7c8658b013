package config

// MetricsConfig configures the optional StatsD emitter. Disabled by default;
// when disabled all metric calls are no-ops.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Addr    string `env:"ADDR"    envDefault:"localhost:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"jeton"`
}
