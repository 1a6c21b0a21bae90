package tenant

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Allowlist names the public paths that bypass tenant resolution entirely:
// health checks, metrics, API docs, schema endpoints. Paths match exactly;
// prefixes match any path below them.
type Allowlist struct {
	Paths    []string `yaml:"paths"`
	Prefixes []string `yaml:"prefixes"`
}

// DefaultAllowlist covers the conventional unauthenticated endpoints.
func DefaultAllowlist() Allowlist {
	return Allowlist{
		Paths: []string{
			"/health",
			"/healthz",
			"/readyz",
			"/metrics",
			"/openapi.json",
		},
		Prefixes: []string{
			"/docs",
		},
	}
}

// Match reports whether the path is public.
func (a Allowlist) Match(path string) bool {
	for _, p := range a.Paths {
		if path == p {
			return true
		}
	}
	for _, prefix := range a.Prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Merge returns a copy of the allow-list with additional entries appended.
func (a Allowlist) Merge(other Allowlist) Allowlist {
	return Allowlist{
		Paths:    append(append([]string{}, a.Paths...), other.Paths...),
		Prefixes: append(append([]string{}, a.Prefixes...), other.Prefixes...),
	}
}

// ReadAllowlist parses an allow-list from YAML:
//
//	paths:
//	  - /health
//	  - /metrics
//	prefixes:
//	  - /docs
func ReadAllowlist(r io.Reader) (Allowlist, error) {
	var a Allowlist
	if err := yaml.NewDecoder(r).Decode(&a); err != nil {
		return Allowlist{}, fmt.Errorf("tenant: parse allowlist: %w", err)
	}
	return a, nil
}

// LoadAllowlist reads an allow-list from a YAML file.
func LoadAllowlist(path string) (Allowlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return Allowlist{}, fmt.Errorf("tenant: open allowlist: %w", err)
	}
	defer f.Close()
	return ReadAllowlist(f)
}
