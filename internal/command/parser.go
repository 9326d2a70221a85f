// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"

	"github.com/samber/oops"
)

// ParsedLine represents one tokenized input line.
type ParsedLine struct {
	Name string   // command name (first whitespace-delimited token)
	Args []string // remaining tokens, in order
	Raw  string   // original input
}

// Tokenize splits a line on runs of whitespace.
// It never returns empty tokens.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// Parse splits raw input into a command name and positional arguments.
func Parse(input string) (*ParsedLine, error) {
	tokens := Tokenize(input)
	if len(tokens) == 0 {
		return nil, oops.Code(CodeEmptyInput).Errorf("no command provided")
	}

	return &ParsedLine{
		Name: tokens[0],
		Args: tokens[1:],
		Raw:  input,
	}, nil
}
