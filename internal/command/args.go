// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strconv"
	"strings"
)

// Arg returns the i-th argument, or "" when it was not supplied.
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// Rest joins the arguments from index i onward with single spaces.
func (inv *Invocation) Rest(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return strings.TrimSpace(strings.Join(inv.Args[i:], " "))
}

// Int converts the i-th argument to an integer.
func (inv *Invocation) Int(i int) (int64, error) {
	raw := inv.Arg(i)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidArgument(inv.Name, i, raw, ArgInteger)
	}
	return n, nil
}

// Float converts the i-th argument to a float.
func (inv *Invocation) Float(i int) (float64, error) {
	raw := inv.Arg(i)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidArgument(inv.Name, i, raw, ArgFloat)
	}
	return f, nil
}
