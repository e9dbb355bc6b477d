// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package harness

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Middleware logs every request except health checks.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrap := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		reqStart := time.Now().UTC()
		next.ServeHTTP(wrap, r)

		if strings.Contains(r.URL.Path, "healthz") {
			return
		}

		status := wrap.Status()
		logr := logrus.WithContext(r.Context()).
			WithField("request_id", middleware.GetReqID(r.Context())).
			WithField("status", status).
			WithField("bytes", wrap.BytesWritten()).
			WithField("dur[ms]", time.Since(reqStart).Milliseconds())
		logLine := "HTTP: " + r.Method + " " + r.URL.RequestURI()
		if status >= http.StatusInternalServerError {
			logr.Errorln(logLine)
		} else {
			logr.Infoln(logLine)
		}
	})
}
