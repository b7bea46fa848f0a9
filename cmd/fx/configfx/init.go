package configfx

import (
	"go.uber.org/fx"
	"parkfinder/internal/infra"
)

var Module = fx.Provide(provideConfig)

// provideConfig loads the configuration and sets up the global logger before
// any other constructor runs.
func provideConfig() (infra.Config, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return infra.Config{}, err
	}
	infra.InitLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}
