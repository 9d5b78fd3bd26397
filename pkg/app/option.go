package app

import "github.com/Dicklesworthstone/hal_browser/pkg/config"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *config.Config
	configFile string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigFile names the file the config was loaded from, enabling live
// reload while the browser runs. An empty path disables the watch.
func WithConfigFile(path string) Option {
	return func(a *application) {
		a.configFile = path
	}
}
