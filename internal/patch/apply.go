package patch

import (
	"fmt"
	"os"
	"strings"
)

// Outcome describes what applying a patch did to its file.
type Outcome struct {
	PatchID      string `json:"patch_id"`
	File         string `json:"file"`
	Replacements int    `json:"replacements"`
}

// Changed reports whether the file was rewritten.
func (o Outcome) Changed() bool { return o.Replacements > 0 }

// Apply replaces every occurrence of p.Old in content with p.New.
func Apply(content string, p Patch) (string, int) {
	n := strings.Count(content, p.Old)
	if n == 0 {
		return content, 0
	}
	return strings.ReplaceAll(content, p.Old, p.New), n
}

// ApplyFile rewrites p.File in place. A file without p.Old is left untouched.
func ApplyFile(p Patch) (Outcome, error) {
	out := Outcome{PatchID: p.ID, File: p.File}

	info, err := os.Stat(p.File)
	if err != nil {
		return out, fmt.Errorf("stat %s: %w", p.File, err)
	}
	raw, err := os.ReadFile(p.File)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", p.File, err)
	}

	patched, n := Apply(string(raw), p)
	if n == 0 {
		return out, nil
	}
	if err := os.WriteFile(p.File, []byte(patched), info.Mode().Perm()); err != nil {
		return out, fmt.Errorf("write %s: %w", p.File, err)
	}
	out.Replacements = n
	return out, nil
}
