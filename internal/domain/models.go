package domain

// Domain contains core models shared by the admin tools.

// RawRecord is a single export row that matched the episode record shape.
type RawRecord struct {
	ID        string
	Slug      string
	Timestamp int64
	Title     string
}

// Episode is the earliest-timestamped record seen for a slug.
type Episode struct {
	Slug      string `json:"slug"`
	Timestamp int64  `json:"time"`
	Title     string `json:"title"`
	ID        string `json:"id"`
}

// EpisodeFrom builds an Episode from the record that currently wins its slug.
func EpisodeFrom(rec RawRecord) Episode {
	return Episode{
		Slug:      rec.Slug,
		Timestamp: rec.Timestamp,
		Title:     rec.Title,
		ID:        rec.ID,
	}
}
