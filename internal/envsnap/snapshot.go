// Package envsnap persists the process environment to a snapshot file so
// that later, differently-invoked processes (scheduled job runs) can source
// the same variables the container was started with.
package envsnap

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Snapshot is an immutable capture of environment variables.
// It is written once at process start and read-only afterwards.
type Snapshot struct {
	vars map[string]string
}

// Capture snapshots the current process environment
func Capture() *Snapshot {
	return FromEnviron(os.Environ())
}

// FromEnviron builds a snapshot from NAME=value pairs
func FromEnviron(environ []string) *Snapshot {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = value
	}
	return &Snapshot{vars: vars}
}

// FromMap builds a snapshot from a variable map
func FromMap(vars map[string]string) *Snapshot {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return &Snapshot{vars: copied}
}

// Len returns the number of captured variables
func (s *Snapshot) Len() int {
	return len(s.vars)
}

// Get returns a captured variable value
func (s *Snapshot) Get(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Names returns variable names in sorted order
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Environ returns the snapshot as NAME=value pairs, sorted by name
func (s *Snapshot) Environ() []string {
	environ := make([]string, 0, len(s.vars))
	for _, name := range s.Names() {
		environ = append(environ, name+"="+s.vars[name])
	}
	return environ
}

// Marshal renders the snapshot in the wire format: one NAME="value" line
// per variable, values double-quoted raw. Embedded quotes and newlines in
// values are not sanitized; the format is a known limitation.
func (s *Snapshot) Marshal() string {
	var b strings.Builder
	for _, name := range s.Names() {
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(s.vars[name])
		b.WriteString("\"\n")
	}
	return b.String()
}

// Write replaces the snapshot file at path. Any prior snapshot is removed
// first: variables absent from the current environment must not survive
// from a previous run. The file is replaced, never merged.
func (s *Snapshot) Write(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove prior snapshot %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(s.Marshal()), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot file back into a variable map. Scheduled job
// invocations call this before running so they see the entrypoint's
// environment. A missing file is an error; the exporter runs before any
// reader exists.
func Load(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return vars, nil
}
