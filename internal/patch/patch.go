// Package patch applies literal substitutions to configuration files.
package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// setFile represents the structure of the patch set file.
type setFile struct {
	Patches []Patch `json:"patches" yaml:"patches"`
}

// Patch is a single literal substitution declared in a patch set file.
type Patch struct {
	ID      string `json:"id" yaml:"id"`
	File    string `json:"file" yaml:"file"`
	Old     string `json:"old" yaml:"old"`
	New     string `json:"new" yaml:"new"`
	Message string `json:"message" yaml:"message"`
	Enabled *bool  `json:"enabled" yaml:"enabled"`
}

// Set holds the patches loaded from a file, in file order.
type Set struct {
	patches []Patch
	idx     map[string]Patch
}

// LoadSet loads a patch set from a YAML/JSON file.
func LoadSet(path string) (*Set, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("patches file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open patches file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read patches file: %w", err)
	}

	parsed, err := parseSet(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Patches) == 0 {
		return nil, errors.New("patches file contains no patches entries")
	}

	set := &Set{
		patches: make([]Patch, len(parsed.Patches)),
		idx:     make(map[string]Patch, len(parsed.Patches)),
	}
	for i := range parsed.Patches {
		p := sanitizePatch(parsed.Patches[i])
		if err := validatePatch(p); err != nil {
			return nil, fmt.Errorf("patches[%d]: %w", i, err)
		}
		if _, exists := set.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate patch id %q", p.ID)
		}
		set.patches[i] = p
		set.idx[p.ID] = p
	}
	return set, nil
}

func parseSet(data []byte, ext string) (setFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		set, err := unmarshalSet(d.name, data, d.fn)
		if err == nil {
			return set, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return setFile{}, fmt.Errorf("patches file format not recognized: %w", lastErr)
	}
	return setFile{}, fmt.Errorf("patches file extension %q not supported (expected YAML or JSON)", ext)
}

// unmarshalSet decodes the patches file using the provided function.
func unmarshalSet(name string, data []byte, fn func([]byte, any) error) (setFile, error) {
	var set setFile
	if err := fn(data, &set); err != nil {
		return setFile{}, fmt.Errorf("decode %s patches: %w", name, err)
	}
	return set, nil
}

// sanitizePatch trims identifiers only; Old and New are matched byte for byte.
func sanitizePatch(p Patch) Patch {
	p.ID = strings.TrimSpace(p.ID)
	p.File = strings.TrimSpace(p.File)
	p.Message = strings.TrimSpace(p.Message)
	if p.Enabled == nil {
		def := true
		p.Enabled = &def
	}
	return p
}

func validatePatch(p Patch) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.File == "" {
		return fmt.Errorf("file is required for patch %q", p.ID)
	}
	if p.Old == "" {
		return fmt.Errorf("old is required for patch %q", p.ID)
	}
	if p.Old == p.New {
		return fmt.Errorf("old and new are identical for patch %q", p.ID)
	}
	return nil
}

// ByID returns the patch with the given id.
func (s *Set) ByID(id string) (Patch, bool) {
	if s == nil {
		return Patch{}, false
	}
	p, ok := s.idx[strings.TrimSpace(id)]
	return p, ok
}

// All returns every patch in file order.
func (s *Set) All() []Patch {
	if s == nil {
		return nil
	}
	out := make([]Patch, len(s.patches))
	copy(out, s.patches)
	return out
}

// Enabled returns the patches that are enabled, in file order.
func (s *Set) Enabled() []Patch {
	all := s.All()
	out := make([]Patch, 0, len(all))
	for _, p := range all {
		if p.EnabledValue() {
			out = append(out, p)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (p Patch) EnabledValue() bool {
	if p.Enabled == nil {
		return true
	}
	return *p.Enabled
}
