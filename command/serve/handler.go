// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package serve

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	loghistory "github.com/drone/runner-go/logger/history"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/salarycast/salarycast/app/form"
	"github.com/salarycast/salarycast/app/predictor"
	"github.com/salarycast/salarycast/command/harness"
	"github.com/salarycast/salarycast/internal/httprender"
	"github.com/salarycast/salarycast/types"
)

const okStatus = "OK"

// maxBodySize caps prediction request bodies.
const maxBodySize = 1 << 16

// Service is the state shared by the HTTP handlers.
type Service struct {
	Predictor predictor.Predictor
	Bundle    types.BundleSummary
	Currency  form.Currency

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// History exposes recent log entries at /logs when set.
	History *loghistory.Hook
}

type (
	predictRequest struct {
		JobTitle      string `json:"job_title"`
		MinExperience *int   `json:"min_experience"`
	}

	predictResponse struct {
		JobTitle      string  `json:"job_title"`
		MinExperience int     `json:"min_experience"`
		MinSalary     float64 `json:"min_salary"`
		MaxSalary     float64 `json:"max_salary"`
		Currency      string  `json:"currency"`
		BundleVersion string  `json:"bundle_version"`
	}

	titlesResponse struct {
		Titles []string `json:"titles"`
	}
)

// Handler returns the router serving the web form and the JSON API.
func Handler(svc *Service) http.Handler {
	f := form.New(svc.Predictor, svc.Bundle.Titles, svc.Currency)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(harness.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/", handlePage(form.PageHome))
	r.Get("/about", handlePage(form.PageAbout))
	r.Get("/predict", handleForm(f))
	r.Post("/predict", handleForm(f))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/titles", handleTitles(svc))
		r.Get("/bundle", handleBundle(svc))
		r.Post("/predict", handlePredict(svc))
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httprender.NotFound(w, "no such endpoint: "+r.URL.Path)
		})
	})

	if svc.Metrics != nil {
		r.Mount("/metrics", svc.Metrics)
	}
	if svc.History != nil {
		r.Get("/logs", handleLogs(svc.History))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, okStatus) //nolint: errcheck
	})
	return r
}

func handlePage(active string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httprender.HTML(w, func(buf *bytes.Buffer) error {
			return form.Render(buf, &form.Page{Active: active})
		})
	}
}

func handleForm(f *form.Form) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httprender.BadRequest(w, err.Error())
			return
		}

		s, err := form.Parse(r.Form)
		if err != nil {
			page := f.Blank()
			page.Submission = s
			page.Error = err.Error()
			httprender.HTML(w, func(buf *bytes.Buffer) error {
				return form.Render(buf, page)
			})
			return
		}

		page, err := f.Submit(r.Context(), s)
		if err != nil {
			logrus.WithContext(r.Context()).WithError(err).Errorln("web: prediction failed")
			page = f.Blank()
			page.Submission = s
			page.Error = "The prediction could not be computed."
		}
		httprender.HTML(w, func(buf *bytes.Buffer) error {
			return form.Render(buf, page)
		})
	}
}

func handleTitles(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		titles := svc.Bundle.Titles
		if titles == nil {
			titles = []string{}
		}
		httprender.OK(w, titlesResponse{Titles: titles})
	}
}

func handleBundle(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httprender.OK(w, svc.Bundle)
	}
}

func handlePredict(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := new(predictRequest)
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			httprender.BadRequest(w, "invalid request body: "+err.Error())
			return
		}
		if req.JobTitle == "" {
			httprender.BadRequest(w, "job_title is required")
			return
		}
		if req.MinExperience == nil {
			httprender.BadRequest(w, "min_experience is required")
			return
		}

		input := &predictor.PredictionInput{
			JobTitle:      req.JobTitle,
			MinExperience: *req.MinExperience,
		}
		result, err := svc.Predictor.Predict(r.Context(), input)
		if predictor.IsInvalidInput(err) {
			httprender.BadRequest(w, err.Error())
			return
		}
		if err != nil {
			httprender.InternalError(w, err)
			return
		}

		httprender.OK(w, predictResponse{
			JobTitle:      input.JobTitle,
			MinExperience: input.MinExperience,
			MinSalary:     result.MinSalary,
			MaxSalary:     result.MaxSalary,
			Currency:      svc.Currency.Code,
			BundleVersion: svc.Bundle.Version,
		})
	}
}

func handleLogs(hook *loghistory.Hook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httprender.OK(w, hook.Entries())
	}
}
