package domain

import "time"

// IDs of the two privileged shared sources. They are visible to every
// identity, may be relabelled by anyone, and can never be deleted.
const (
	// SharedSourceCatalog is the store-synced baseline catalog.
	SharedSourceCatalog = "catalog"

	// SharedSourceCustomLinks holds products imported from URLs, shared
	// across all identities.
	SharedSourceCustomLinks = "custom-links"
)

// Source is a named, ordered collection of raw product records.
// Each source maps to one JSON file on disk and contributes records to the
// canonical catalog under its Position in the load order.
type Source struct {
	// ID is the unique identifier, slugified from the name at import time.
	ID string

	// Name is the human-readable label.
	Name string

	// OwnerID identifies the importing identity. Empty for shared sources.
	OwnerID string

	// Position orders sources for catalog loading. Lower loads first and
	// wins key collisions.
	Position int

	// CreatedAt is when the source was imported.
	CreatedAt time.Time

	// UpdatedAt is when the source was last modified.
	UpdatedAt time.Time
}

// Shared reports whether the source is one of the two privileged sources.
func (s *Source) Shared() bool {
	return s.ID == SharedSourceCatalog || s.ID == SharedSourceCustomLinks
}

// Protected reports whether the source may never be deleted.
func (s *Source) Protected() bool {
	return s.Shared()
}

// ModifiableBy reports whether the requester may rename the source or edit
// its records. Shared sources have no ownership check.
func (s *Source) ModifiableBy(requesterID string) bool {
	if s.Shared() {
		return true
	}
	return s.OwnerID == requesterID
}

// VisibleTo reports whether the viewer can see this source and its records.
func (s *Source) VisibleTo(viewerID string) bool {
	if s.Shared() {
		return true
	}
	return s.OwnerID == viewerID
}
