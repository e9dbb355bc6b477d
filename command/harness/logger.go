// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package harness

import (
	"os"

	"github.com/drone/runner-go/logger"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/salarycast/salarycast/command/config"
)

// helper function configures the global logger from
// the loaded configuration.
func SetupLogger(c *config.EnvConfig) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logger.Default = logger.Logrus(
		logrus.NewEntry(
			logrus.StandardLogger(),
		),
	)

	if c.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Trace {
		logrus.SetLevel(logrus.TraceLevel)
	}
}
