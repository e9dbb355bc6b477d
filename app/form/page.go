// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package form

import (
	"embed"
	"html/template"
	"io"
	"strconv"
)

// Pages reachable from the navigation menu.
const (
	PageHome    = "home"
	PageAbout   = "about"
	PagePredict = "predict"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"selected": func(s Submission, option string) bool {
		if s.Title == "" {
			return option == Placeholder
		}
		return s.Title == option
	},
	"experience": func(s Submission) string {
		if s.Experience == nil {
			return ""
		}
		return strconv.Itoa(*s.Experience)
	},
}).ParseFS(templateFS, "templates/*.html"))

// Page is the data rendered by the page templates.
type Page struct {
	Active     string
	Options    []string
	Submission Submission
	Result     *Result
	Notice     string
	Error      string
}

// Result holds the formatted salary range.
type Result struct {
	Min string
	Max string
}

// Render writes page as HTML.
func Render(w io.Writer, page *Page) error {
	return pages.ExecuteTemplate(w, "layout.html", page)
}

// Limits are exposed to the templates for the number input bounds.
func (p *Page) MinExperience() int { return MinExperience }
func (p *Page) MaxExperience() int { return MaxExperience }
