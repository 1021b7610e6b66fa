package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SongCatalog maps song identifiers to per-difficulty star ratings. Songs
// or difficulties absent from the catalog are unrated and contribute no
// pp. The checksum is computed over the raw document bytes, so the same
// document always yields the same key.
type SongCatalog struct {
	ratings  map[string]map[string]float64
	checksum string
}

// ParseSongCatalog decodes a song catalog document.
func ParseSongCatalog(data []byte) (*SongCatalog, error) {
	var ratings map[string]map[string]float64
	if err := json.Unmarshal(data, &ratings); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	// Song identifiers are case-insensitive hashes; normalize once.
	normalized := make(map[string]map[string]float64, len(ratings))
	for song, difficulties := range ratings {
		normalized[strings.ToUpper(song)] = difficulties
	}
	return &SongCatalog{
		ratings:  normalized,
		checksum: checksum(data),
	}, nil
}

// Star returns the star rating for a song and difficulty tag, reporting
// whether the catalog rates it at all.
func (c *SongCatalog) Star(song, difficulty string) (float64, bool) {
	difficulties, ok := c.ratings[strings.ToUpper(song)]
	if !ok {
		return 0, false
	}
	star, ok := difficulties[difficulty]
	return star, ok
}

// Checksum returns the hex digest of the source document.
func (c *SongCatalog) Checksum() string { return c.checksum }

// Len returns the number of songs in the catalog.
func (c *SongCatalog) Len() int { return len(c.ratings) }

// Songs returns the normalized song identifiers in the catalog, in no
// particular order.
func (c *SongCatalog) Songs() []string {
	songs := make([]string, 0, len(c.ratings))
	for song := range c.ratings {
		songs = append(songs, song)
	}
	return songs
}

// Difficulties returns the rated difficulty tags for a song.
func (c *SongCatalog) Difficulties(song string) []string {
	difficulties := c.ratings[strings.ToUpper(song)]
	tags := make([]string, 0, len(difficulties))
	for tag := range difficulties {
		tags = append(tags, tag)
	}
	return tags
}
