// Package document defines the result type returned by the search engine
// and the document lifecycle status enumeration shared across packages.
package document

import (
	"fmt"

	"github.com/tfsearch/searchd/pkg/errors"
)

// Status is the lifecycle state of an indexed document. Queries filter on it;
// the engine itself never changes a document's status after ingestion.
type Status int

const (
	StatusActive Status = iota
	StatusIrrelevant
	StatusBanned
	StatusRemoved
)

var statusNames = map[Status]string{
	StatusActive:     "active",
	StatusIrrelevant: "irrelevant",
	StatusBanned:     "banned",
	StatusRemoved:    "removed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus converts the wire form ("active", "banned", ...) back to a
// Status. The empty string defaults to StatusActive.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "", "active":
		return StatusActive, nil
	case "irrelevant":
		return StatusIrrelevant, nil
	case "banned":
		return StatusBanned, nil
	case "removed":
		return StatusRemoved, nil
	default:
		return 0, errors.Newf(errors.ErrInvalidInput, 400, "unknown document status %q", s)
	}
}

// MarshalText renders the status in its wire form.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the wire form.
func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Document is a single ranked search result.
type Document struct {
	ID        int     `json:"id"`
	Relevance float64 `json:"relevance"`
	Rating    int     `json:"rating"`
}

func (d Document) String() string {
	return fmt.Sprintf("{ document_id = %d, relevance = %v, rating = %d }",
		d.ID, d.Relevance, d.Rating)
}
