package daemoncmd

import "time"

// ConfigSnapshot holds a copy of controllerConfig fields for test assertions.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config without accessing internals.
type ConfigSnapshot struct {
	LaunchTimeout      time.Duration
	LaunchPollInterval time.Duration
	StopTimeout        time.Duration
	KillDrainTimeout   time.Duration
}

// ApplyOptionsForTesting creates a default controllerConfig, applies the
// given options, and returns a ConfigSnapshot of the result. This tests the
// option closures directly without constructing a Controller.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := defaultControllerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return ConfigSnapshot{
		LaunchTimeout:      cfg.LaunchTimeout,
		LaunchPollInterval: cfg.LaunchPollInterval,
		StopTimeout:        cfg.StopTimeout,
		KillDrainTimeout:   cfg.KillDrainTimeout,
	}
}
