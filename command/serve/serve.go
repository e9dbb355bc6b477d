// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package serve

import (
	"context"

	loghistory "github.com/drone/runner-go/logger/history"
	"github.com/drone/runner-go/server"
	"github.com/drone/signal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/salarycast/salarycast/app/bundle"
	"github.com/salarycast/salarycast/app/form"
	"github.com/salarycast/salarycast/app/predictor"
	"github.com/salarycast/salarycast/command/config"
	"github.com/salarycast/salarycast/command/harness"
	"github.com/salarycast/salarycast/metric"
)

type serveCommand struct {
	envFile string
	env     config.EnvConfig
}

func Register(app *kingpin.Application) {
	c := new(serveCommand)

	cmd := app.Command("serve", "starts the prediction server").
		Default().
		Action(c.run)
	cmd.Flag("envfile", "load the environment variable file").
		StringVar(&c.envFile)
}

func (c *serveCommand) run(*kingpin.ParseContext) error {
	env, err := config.FromEnviron(c.envFile)
	if err != nil {
		return err
	}
	c.env = env
	// setup the global logrus logger.
	harness.SetupLogger(&c.env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// listen for termination signals to gracefully shutdown the server.
	ctx = signal.WithContextFunc(ctx, func() {
		println("received signal, terminating process")
		cancel()
	})

	// without the artifacts no prediction can be served.
	b, err := harness.LoadBundle(ctx, &c.env)
	if err != nil {
		logrus.WithError(err).
			Fatalln("serve: cannot load the artifact bundle")
	}

	svc, err := c.service(b, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}

	hook := loghistory.New()
	logrus.AddHook(hook)
	if c.env.Debug || c.env.Trace {
		svc.History = hook
	}

	var g errgroup.Group
	predictServer := server.Server{
		Addr:    c.env.Server.Port,
		Handler: Handler(svc),
	}

	logrus.WithField("addr", predictServer.Addr).
		WithField("bundle", b.Manifest.Version).
		WithField("titles", len(svc.Bundle.Titles)).
		Infoln("starting the server")

	g.Go(func() error {
		return predictServer.ListenAndServe(ctx)
	})

	waitErr := g.Wait()
	if waitErr != nil {
		logrus.WithError(waitErr).
			Errorln("shutting down the server")
	}
	return waitErr
}

// service wires the loaded bundle into the state served over HTTP.
func (c *serveCommand) service(b *bundle.Bundle, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*Service, error) {
	summary := bundle.Summary(b)

	code := c.env.Display.Currency
	if code == "" {
		code = summary.Currency
	}

	var p predictor.Predictor = b.Pipeline
	svc := &Service{
		Bundle:   summary,
		Currency: form.Currency{Symbol: c.env.Display.Symbol, Code: code},
	}

	if !c.env.Metrics.Disabled {
		m, err := metric.New(reg)
		if err != nil {
			return nil, err
		}
		m.SetBundle(summary.Version, summary.Currency)
		p = metric.Instrument(p, m)
		svc.Metrics = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
	svc.Predictor = p
	return svc, nil
}
