// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package command

import (
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/salarycast/salarycast/command/artifacts"
	"github.com/salarycast/salarycast/command/predict"
	"github.com/salarycast/salarycast/command/serve"
)

// program version
var version = "v1.0.0"

// Command parses the command line arguments and then executes a subcommand program.
func Command() {
	app := kingpin.New("salarycast", "salary range prediction service")
	serve.Register(app)
	predict.Register(app)
	artifacts.Register(app)

	kingpin.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}
