package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one saved command.
type Record struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   Timestamp `json:"created_at"`
}

// NewRecord assigns a fresh id and creation time. A nil tags slice is stored
// as an empty list.
func NewRecord(command, description string, tags []string) Record {
	if tags == nil {
		tags = []string{}
	}
	return Record{
		ID:          uuid.New().String(),
		Command:     command,
		Description: description,
		Tags:        tags,
		CreatedAt:   Timestamp{Time: time.Now().Round(0)},
	}
}

// ShortID is the 8 character id prefix shown in listings.
func (r Record) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// TagList joins tags for display, "-" when there are none.
func (r Record) TagList() string {
	if len(r.Tags) == 0 {
		return "-"
	}
	return strings.Join(r.Tags, ", ")
}

// ParseTags splits a comma-separated tag argument, trimming whitespace and
// dropping empty entries. An empty input yields an empty, non-nil slice.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// FindFirstByPrefix returns the index of the first record whose id starts
// with prefix, or -1.
func FindFirstByPrefix(records []Record, prefix string) int {
	for i, r := range records {
		if strings.HasPrefix(r.ID, prefix) {
			return i
		}
	}
	return -1
}

// FilterByPrefix splits records into those kept and every record whose id
// starts with prefix. Both keep the input order.
func FilterByPrefix(records []Record, prefix string) (kept, removed []Record) {
	kept = make([]Record, 0, len(records))
	for _, r := range records {
		if strings.HasPrefix(r.ID, prefix) {
			removed = append(removed, r)
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}
