package tracker

import (
	"fmt"
	"strings"
	"time"
)

// Status is the stage an application has reached.
type Status string

const (
	StatusApplied      Status = "applied"
	StatusScreening    Status = "screening"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusRejected     Status = "rejected"
	StatusAccepted     Status = "accepted"
	StatusDeclined     Status = "declined"
	StatusGhosted      Status = "ghosted"
)

// StatusOption pairs a status with its display label.
type StatusOption struct {
	Value Status
	Label string
}

// StatusOptions lists every status in pipeline order.
var StatusOptions = []StatusOption{
	{StatusApplied, "Applied"},
	{StatusScreening, "Phone Screening"},
	{StatusInterviewing, "Interviewing"},
	{StatusOffer, "Offer Received"},
	{StatusRejected, "Rejected"},
	{StatusAccepted, "Accepted"},
	{StatusDeclined, "Declined"},
	{StatusGhosted, "No Response"},
}

// Label returns the display label, or the raw value for unknown statuses.
func (s Status) Label() string {
	for _, o := range StatusOptions {
		if o.Value == s {
			return o.Label
		}
	}
	return string(s)
}

// Valid reports whether s is one of the fixed statuses.
func (s Status) Valid() bool {
	for _, o := range StatusOptions {
		if o.Value == s {
			return true
		}
	}
	return false
}

// ParseStatus accepts a status value or its display label, case-insensitively.
// An empty string parses as StatusApplied.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusApplied, nil
	}
	for _, o := range StatusOptions {
		if strings.EqualFold(s, string(o.Value)) || strings.EqualFold(s, o.Label) {
			return o.Value, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}

// Application is one job application as persisted.
type Application struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	URLHash string `json:"urlHash"`
	// URLHashWeak marks a hash produced by the non-cryptographic fallback.
	URLHashWeak  bool      `json:"urlHashWeak,omitempty"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes"`
	Domain       string    `json:"domain"`
	DateApplied  time.Time `json:"dateApplied"`
	DateModified time.Time `json:"dateModified"`
}

// Candidate is a record offered for saving, from scraping, manual entry or
// import. Only URL is required. A Candidate whose URL matches an existing
// record is merged into that record: its ID is replaced by the existing ID
// and the existing DateApplied wins.
type Candidate struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Company     string     `json:"company,omitempty"`
	Location    string     `json:"location,omitempty"`
	URL         string     `json:"url" validate:"required"`
	Status      Status     `json:"status,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	DateApplied *time.Time `json:"dateApplied,omitempty"`
}

// Candidate converts a stored record back into a Candidate carrying its ID
// and application date.
func (a Application) Candidate() Candidate {
	applied := a.DateApplied
	return Candidate{
		ID:          a.ID,
		Title:       a.Title,
		Company:     a.Company,
		Location:    a.Location,
		URL:         a.URL,
		Status:      a.Status,
		Notes:       a.Notes,
		DateApplied: &applied,
	}
}

// Patch holds the fields to change in Update. Nil fields are left alone.
type Patch struct {
	Title       *string
	Company     *string
	Location    *string
	URL         *string
	Status      *Status
	Notes       *string
	DateApplied *time.Time
}

// Apply returns c with the non-nil patch fields copied over it.
func (p Patch) Apply(c Candidate) Candidate {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.URL != nil {
		c.URL = *p.URL
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.DateApplied != nil {
		d := *p.DateApplied
		c.DateApplied = &d
	}
	return c
}

// Settings are user preferences stored beside the applications. They have
// their own lifecycle and are never touched by Save, Update or Delete.
type Settings struct {
	OverlayEnabled  bool   `json:"overlayEnabled"`
	OverlayPosition string `json:"overlayPosition"`
	Theme           string `json:"theme"`
	Notifications   bool   `json:"notifications"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{
		OverlayEnabled:  true,
		OverlayPosition: "top",
		Theme:           "light",
		Notifications:   true,
	}
}
