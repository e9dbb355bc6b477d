// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

// Package artifacts implements the commands that validate artifact
// bundles and move them in and out of the registry.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/salarycast/salarycast/app/bundle"
	"github.com/salarycast/salarycast/command/config"
	"github.com/salarycast/salarycast/command/harness"
	"github.com/salarycast/salarycast/store"
	"github.com/salarycast/salarycast/store/database"
)

type artifactsCommand struct {
	envFile string
	path    string
	version string
	output  string
	env     config.EnvConfig
}

func Register(app *kingpin.Application) {
	c := new(artifactsCommand)

	cmd := app.Command("artifacts", "manages artifact bundles")
	cmd.Flag("envfile", "load the environment variable file").
		StringVar(&c.envFile)

	check := cmd.Command("check", "validates a bundle and prints its summary").
		Action(c.runCheck)
	check.Arg("path", "bundle manifest or directory").
		Required().
		StringVar(&c.path)

	push := cmd.Command("push", "stores a bundle in the registry").
		Action(c.runPush)
	push.Arg("path", "bundle manifest or directory").
		Required().
		StringVar(&c.path)

	pull := cmd.Command("pull", "exports a bundle from the registry").
		Action(c.runPull)
	pull.Arg("version", "bundle version, latest when omitted").
		StringVar(&c.version)
	pull.Flag("output", "directory the bundle files are written to").
		Default("./artifacts").
		StringVar(&c.output)

	cmd.Command("list", "lists the bundles in the registry").
		Action(c.runList)

	del := cmd.Command("delete", "removes every bundle with the given version").
		Action(c.runDelete)
	del.Arg("version", "bundle version").
		Required().
		StringVar(&c.version)
}

func (c *artifactsCommand) setup() error {
	env, err := config.FromEnviron(c.envFile)
	if err != nil {
		return err
	}
	c.env = env
	harness.SetupLogger(&c.env)
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		pterm.DisableStyling()
	}
	return nil
}

// withRegistry opens the configured registry for the duration of fn.
func (c *artifactsCommand) withRegistry(fn func(context.Context, store.BundleStore) error) error {
	if err := c.setup(); err != nil {
		return err
	}
	if !c.env.UseRegistry() {
		return errors.New("no registry configured, set SALARY_REGISTRY_DRIVER")
	}
	ctx := context.Background()
	bundles, closer, err := database.ProvideBundleStore(ctx, c.env.Registry.Driver.String(), c.env.Registry.Datasource)
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn(ctx, bundles)
}

func (c *artifactsCommand) runCheck(*kingpin.ParseContext) error {
	if err := c.setup(); err != nil {
		return err
	}
	return check(c.path, os.Stdout)
}

func (c *artifactsCommand) runPush(*kingpin.ParseContext) error {
	return c.withRegistry(func(ctx context.Context, bundles store.BundleStore) error {
		return push(ctx, bundles, c.path, os.Stdout)
	})
}

func (c *artifactsCommand) runPull(*kingpin.ParseContext) error {
	return c.withRegistry(func(ctx context.Context, bundles store.BundleStore) error {
		return pull(ctx, bundles, c.version, c.output, os.Stdout)
	})
}

func (c *artifactsCommand) runList(*kingpin.ParseContext) error {
	return c.withRegistry(func(ctx context.Context, bundles store.BundleStore) error {
		return list(ctx, bundles, os.Stdout)
	})
}

func (c *artifactsCommand) runDelete(*kingpin.ParseContext) error {
	return c.withRegistry(func(ctx context.Context, bundles store.BundleStore) error {
		if err := bundles.Delete(ctx, c.version); err != nil {
			return errors.Wrapf(err, "cannot delete bundle %q", c.version)
		}
		logrus.WithField("version", c.version).Infoln("bundle deleted")
		return nil
	})
}

func check(path string, w io.Writer) error {
	b, err := bundle.Load(path)
	if err != nil {
		return err
	}
	s := bundle.Summary(b)
	table, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Version", s.Version},
		{"Currency", s.Currency},
		{"Scaler", s.Scaler},
		{"Minimum model", s.MinModel},
		{"Maximum model", s.MaxModel},
		{"Titles", fmt.Sprintf("%d", len(s.Titles))},
	}).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", table, strings.Join(s.Titles, "\n"))
	return err
}

func push(ctx context.Context, bundles store.BundleStore, path string, w io.Writer) error {
	b, err := bundle.Load(path)
	if err != nil {
		return err
	}
	rec, err := bundle.Record(b)
	if err != nil {
		return err
	}
	if err := bundles.Create(ctx, rec); err != nil {
		return errors.Wrap(err, "cannot store bundle")
	}
	logrus.WithField("id", rec.ID).
		WithField("version", rec.Version).
		Infoln("bundle stored")
	_, err = fmt.Fprintln(w, rec.ID)
	return err
}

func pull(ctx context.Context, bundles store.BundleStore, version, dir string, w io.Writer) error {
	b, err := harness.FetchBundle(ctx, bundles, version)
	if err != nil {
		return err
	}
	path, err := bundle.Write(dir, b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, path)
	return err
}

func list(ctx context.Context, bundles store.BundleStore, w io.Writer) error {
	records, err := bundles.List(ctx)
	if err != nil {
		return err
	}
	data := pterm.TableData{{"ID", "Version", "Currency", "Size", "Created"}}
	for _, rec := range records {
		data = append(data, []string{
			rec.ID,
			rec.Version,
			rec.Currency,
			humanize.Bytes(uint64(len(rec.Documents))),
			humanize.Time(time.Unix(0, rec.Created)),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
