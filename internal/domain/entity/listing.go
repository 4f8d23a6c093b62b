package entity

import "github.com/google/uuid"

// ListingParams carries the raw, untrusted listing inputs exactly as received.
type ListingParams struct {
	Page      string
	Limit     string
	Tag       string
	Author    string
	Published string
	Query     string
}

// PostSort is the ordering of a listing.
type PostSort int

const (
	// SortCreatedDesc orders by creation time, most recent first.
	SortCreatedDesc PostSort = iota
	// SortRankDesc orders by full-text rank, ties broken by creation time descending.
	SortRankDesc
)

// ListingQueryPlan is the validated, bounded form of ListingParams.
type ListingQueryPlan struct {
	Page      int
	Limit     int
	Tag       *string
	AuthorID  *uuid.UUID
	Published *bool
	Search    string
	Sort      PostSort
}

// Skip is the number of rows before the first item of the page. Never negative.
func (p ListingQueryPlan) Skip() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}

	return (p.Page - 1) * p.Limit
}

// HasSearch reports whether ranked full-text mode is active.
func (p ListingQueryPlan) HasSearch() bool {
	return p.Search != ""
}
