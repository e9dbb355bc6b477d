// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/salarycast/salarycast/app/bundle"
	"github.com/salarycast/salarycast/app/form"
	"github.com/salarycast/salarycast/app/predictor"
	"github.com/salarycast/salarycast/command/config"
	"github.com/salarycast/salarycast/command/harness"
)

type predictCommand struct {
	envFile    string
	bundlePath string
	title      string
	experience int
	json       bool
}

func Register(app *kingpin.Application) {
	c := new(predictCommand)

	cmd := app.Command("predict", "predicts the salary range for a single job title").
		Action(c.run)
	cmd.Flag("envfile", "load the environment variable file").
		StringVar(&c.envFile)
	cmd.Flag("bundle", "path to the artifact bundle manifest or directory").
		StringVar(&c.bundlePath)
	cmd.Flag("title", "job title").
		Required().
		StringVar(&c.title)
	cmd.Flag("experience", "minimum years of experience").
		Required().
		IntVar(&c.experience)
	cmd.Flag("json", "print the result as json").
		BoolVar(&c.json)
}

func (c *predictCommand) run(*kingpin.ParseContext) error {
	env, err := config.FromEnviron(c.envFile)
	if err != nil {
		return err
	}
	harness.SetupLogger(&env)
	if c.bundlePath != "" {
		env.Bundle.Path = c.bundlePath
		env.Registry.Driver = ""
	}

	ctx := context.Background()
	b, err := harness.LoadBundle(ctx, &env)
	if err != nil {
		return err
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		pterm.DisableStyling()
	}
	currency := form.Currency{Symbol: env.Display.Symbol, Code: b.Manifest.Currency}
	if env.Display.Currency != "" {
		currency.Code = env.Display.Currency
	}
	return c.predict(ctx, b, currency, os.Stdout)
}

type output struct {
	JobTitle      string  `json:"job_title"`
	MinExperience int     `json:"min_experience"`
	MinSalary     float64 `json:"min_salary"`
	MaxSalary     float64 `json:"max_salary"`
	Currency      string  `json:"currency"`
	BundleVersion string  `json:"bundle_version"`
}

func (c *predictCommand) predict(ctx context.Context, b *bundle.Bundle, currency form.Currency, w io.Writer) error {
	result, err := b.Pipeline.Predict(ctx, &predictor.PredictionInput{
		JobTitle:      c.title,
		MinExperience: c.experience,
	})
	if err != nil {
		return err
	}

	if c.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(&output{
			JobTitle:      c.title,
			MinExperience: c.experience,
			MinSalary:     result.MinSalary,
			MaxSalary:     result.MaxSalary,
			Currency:      currency.Code,
			BundleVersion: b.Manifest.Version,
		})
	}

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithData(pterm.TableData{
			{"Job Title", "Experience", "Minimum Salary", "Maximum Salary"},
			{c.title, fmt.Sprintf("%d years", c.experience), currency.Format(result.MinSalary), currency.Format(result.MaxSalary)},
		}).
		Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
