// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// EnvConfig stores the service configuration.
type EnvConfig struct {
	Debug bool `envconfig:"SALARY_DEBUG"`
	Trace bool `envconfig:"SALARY_TRACE"`

	Server struct {
		Port string `envconfig:"SALARY_HTTP_BIND" default:":3000"`
	}

	Bundle struct {
		Path    string `envconfig:"SALARY_BUNDLE_PATH" default:"./artifacts/bundle.yaml"`
		Version string `envconfig:"SALARY_BUNDLE_VERSION"`
	}

	Registry struct {
		Driver     Driver `envconfig:"SALARY_REGISTRY_DRIVER"`
		Datasource string `envconfig:"SALARY_REGISTRY_DATASOURCE"`
	}

	Display struct {
		Currency string `envconfig:"SALARY_DISPLAY_CURRENCY"`
		Symbol   string `envconfig:"SALARY_DISPLAY_SYMBOL" default:"₹"`
	}

	Metrics struct {
		Disabled bool `envconfig:"SALARY_METRICS_DISABLED"`
	}
}

// FromEnviron loads the configuration from the environment, after
// merging in the variables of envFile when it is set.
func FromEnviron(envFile string) (EnvConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logrus.WithError(err).
				Warnf("config: failed to load environment variables from file: %s", envFile)
		}
	}
	var config EnvConfig
	err := envconfig.Process("", &config)
	return config, err
}

// UseRegistry reports whether bundles are read from the registry
// rather than from the bundle path.
func (c *EnvConfig) UseRegistry() bool {
	return c.Registry.Driver != ""
}
