// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package form

import (
	"github.com/dustin/go-humanize"
)

// Currency formats salary amounts for display.
type Currency struct {
	Symbol string
	Code   string
}

// Format renders v with thousands separators and two decimals,
// e.g. ₹1,234,567.89 INR.
func (c Currency) Format(v float64) string {
	s := c.Symbol + humanize.FormatFloat("#,###.##", v)
	if c.Code != "" {
		s += " " + c.Code
	}
	return s
}
