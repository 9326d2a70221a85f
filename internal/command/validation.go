// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"regexp"

	"github.com/samber/oops"
)

const (
	// MaxNameLength is the maximum length for command names and topics.
	MaxNameLength = 32
)

// namePattern validates command names: must start with a letter, followed by
// letters, digits, or _-.?!
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.?!\-]*$`)

// ValidateCommandName validates a command name.
func ValidateCommandName(name string) error {
	return validateName(name, "command")
}

// ValidateTopic validates a console topic (commander name).
func ValidateTopic(name string) error {
	return validateName(name, "topic")
}

func validateName(name, kind string) error {
	if name == "" {
		return oops.Code(CodeInvalidName).
			With("kind", kind).
			Errorf("%s name cannot be empty", kind)
	}

	if len(name) > MaxNameLength {
		return oops.Code(CodeInvalidName).
			With("kind", kind).
			With("length", len(name)).
			With("max", MaxNameLength).
			Errorf("%s name exceeds maximum length of %d", kind, MaxNameLength)
	}

	if !namePattern.MatchString(name) {
		return oops.Code(CodeInvalidName).
			With("kind", kind).
			With("name", name).
			Errorf("%s name must start with a letter and contain only letters, digits, or _-.?!", kind)
	}

	return nil
}
