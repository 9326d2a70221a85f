// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package region

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// HostDependency is the dependency name a manifest uses to constrain the
// simulator version.
const HostDependency = "simulator"

// Error codes for manifest parsing and host compatibility.
const (
	CodeInvalidManifest  = "INVALID_MANIFEST"
	CodeIncompatibleHost = "INCOMPATIBLE_HOST"
)

// Manifest describes a region module: its identity and what it needs from
// the host. Modules ship it as an embedded module.yaml.
type Manifest struct {
	Name         string       `yaml:"name"`
	Version      string       `yaml:"version"`
	Description  string       `yaml:"description,omitempty"`
	Dependencies []Dependency `yaml:"dependencies,omitempty"`
}

// Dependency is a named version constraint, e.g. {simulator, ">= 0.5"}.
type Dependency struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// maxNameLength is the maximum allowed length for module names.
const maxNameLength = 64

// namePattern validates module names: must start with a letter, followed by
// letters, digits, or hyphens.
var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// ParseManifest parses and validates a module.yaml document.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, oops.Code(CodeInvalidManifest).Errorf("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oops.Code(CodeInvalidManifest).Wrapf(err, "invalid YAML")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return oops.Code(CodeInvalidManifest).
			With("name", m.Name).
			Errorf("name %q must start with a letter and contain only letters, digits, and hyphens", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return oops.Code(CodeInvalidManifest).
			With("name", m.Name).
			Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return oops.Code(CodeInvalidManifest).With("name", m.Name).Errorf("version is required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return oops.Code(CodeInvalidManifest).
			With("name", m.Name).
			With("version", m.Version).
			Wrapf(err, "version is not semantic")
	}

	for _, dep := range m.Dependencies {
		if dep.Name == "" {
			return oops.Code(CodeInvalidManifest).With("name", m.Name).Errorf("dependency name is required")
		}
		if _, err := semver.NewConstraint(dep.Version); err != nil {
			return oops.Code(CodeInvalidManifest).
				With("name", m.Name).
				With("dependency", dep.Name).
				With("constraint", dep.Version).
				Wrapf(err, "invalid version constraint")
		}
	}

	return nil
}

// CheckHost verifies the manifest's simulator dependency, if any, accepts
// hostVersion.
func (m *Manifest) CheckHost(hostVersion *semver.Version) error {
	for _, dep := range m.Dependencies {
		if dep.Name != HostDependency {
			continue
		}
		constraint, err := semver.NewConstraint(dep.Version)
		if err != nil {
			return oops.Code(CodeInvalidManifest).
				With("name", m.Name).
				With("constraint", dep.Version).
				Wrapf(err, "invalid version constraint")
		}
		if !constraint.Check(hostVersion) {
			return oops.Code(CodeIncompatibleHost).
				With("module", m.Name).
				With("constraint", dep.Version).
				With("host_version", hostVersion.String()).
				Errorf("module %s requires %s %s, host is %s", m.Name, HostDependency, dep.Version, hostVersion)
		}
	}
	return nil
}
