// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

// Package httprender writes JSON and HTML responses.
package httprender

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Error is the body of every JSON error response.
type Error struct {
	Message string `json:"error"`
}

func OK(w http.ResponseWriter, v interface{}) {
	JSON(w, v, http.StatusOK)
}

func JSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, &Error{Message: message}, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, message string) {
	JSON(w, &Error{Message: message}, http.StatusNotFound)
}

func InternalError(w http.ResponseWriter, err error) {
	logrus.WithError(err).Errorln("api: internal error")
	JSON(w, &Error{Message: http.StatusText(http.StatusInternalServerError)}, http.StatusInternalServerError)
}

// HTML renders a page into a buffer first so that a template failure
// still produces a clean 500 instead of a truncated page.
func HTML(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logrus.WithError(err).Errorln("web: cannot render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
