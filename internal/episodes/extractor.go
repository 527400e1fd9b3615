// Package episodes recovers episode metadata from a tab-separated database export.
package episodes

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/dosmundos/admin-tools/internal/domain"
)

// Marker is the record marker selecting Spanish episode rows in the export.
const Marker = "es"

// recordPattern matches `<uuid>\t<YYYY-MM-DD>\tes\t<int>\t<title>\t` at the start of a line.
var recordPattern = regexp.MustCompile(`(?m)^([0-9a-f-]+)\t(\d{4}-\d{2}-\d{2})\t` + Marker + `\t(\d+)\t([^\t\n]+)\t`)

// Result is the earliest episode per slug.
type Result struct {
	episodes map[string]domain.Episode
	matched  int
}

// Count returns the number of distinct slugs.
func (r *Result) Count() int {
	if r == nil {
		return 0
	}
	return len(r.episodes)
}

// Matched returns how many export rows matched the record shape.
func (r *Result) Matched() int {
	if r == nil {
		return 0
	}
	return r.matched
}

// Episode returns the stored episode for slug.
func (r *Result) Episode(slug string) (domain.Episode, bool) {
	if r == nil {
		return domain.Episode{}, false
	}
	ep, ok := r.episodes[slug]
	return ep, ok
}

// Sorted returns the episodes in ascending slug order.
func (r *Result) Sorted() []domain.Episode {
	if r == nil || len(r.episodes) == 0 {
		return nil
	}
	out := make([]domain.Episode, 0, len(r.episodes))
	for _, ep := range r.episodes {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Extract scans content for episode records and keeps the earliest one per slug.
// Lines that do not match the record shape are ignored.
func Extract(content string) (*Result, error) {
	res := &Result{episodes: make(map[string]domain.Episode)}

	for _, m := range recordPattern.FindAllStringSubmatch(content, -1) {
		rec, err := parseRecord(m)
		if err != nil {
			return nil, err
		}
		res.matched++
		res.observe(rec)
	}
	return res, nil
}

// observe keeps the first record for a slug unless a strictly earlier one arrives.
func (r *Result) observe(rec domain.RawRecord) {
	current, ok := r.episodes[rec.Slug]
	if ok && rec.Timestamp >= current.Timestamp {
		return
	}
	r.episodes[rec.Slug] = domain.EpisodeFrom(rec)
}

func parseRecord(m []string) (domain.RawRecord, error) {
	ts, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return domain.RawRecord{}, fmt.Errorf("parse time for slug %s: %w", m[2], err)
	}
	return domain.RawRecord{
		ID:        m[1],
		Slug:      m[2],
		Timestamp: ts,
		Title:     m[4],
	}, nil
}
