package service

import (
	"strconv"
	"strings"

	"blog/internal/domain/entity"

	"github.com/google/uuid"
)

const (
	// HardMaxListingLimit caps every listing regardless of configuration or request.
	HardMaxListingLimit = 50
	// DefaultListingLimit applies when the caller sends no usable limit.
	DefaultListingLimit = 10

	// maxListingPage keeps (page-1)*limit far away from int overflow.
	maxListingPage = 1_000_000
)

// ListingQueryPlanner turns untrusted listing parameters into a bounded plan.
type ListingQueryPlanner interface {
	Plan(params entity.ListingParams) entity.ListingQueryPlan
}

type listingQueryPlanner struct {
	defaultLimit int
	maxLimit     int
}

// NewListingQueryPlanner builds a planner. maxLimit is clamped into
// [1, HardMaxListingLimit] and defaultLimit into [1, maxLimit]; zero values
// fall back to the package defaults.
func NewListingQueryPlanner(defaultLimit, maxLimit int) ListingQueryPlanner {
	if maxLimit <= 0 || maxLimit > HardMaxListingLimit {
		maxLimit = HardMaxListingLimit
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultListingLimit
	}
	defaultLimit = min(defaultLimit, maxLimit)

	return &listingQueryPlanner{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Plan is a pure function of its input.
func (p *listingQueryPlanner) Plan(params entity.ListingParams) entity.ListingQueryPlan {
	plan := entity.ListingQueryPlan{
		Page:  p.page(params.Page),
		Limit: p.limit(params.Limit),
		Sort:  entity.SortCreatedDesc,
	}

	if tag := strings.TrimSpace(params.Tag); tag != "" {
		plan.Tag = &tag
	}

	// An unparsable author degrades to "no author filter".
	if authorID, err := uuid.Parse(strings.TrimSpace(params.Author)); err == nil && authorID != uuid.Nil {
		plan.AuthorID = &authorID
	}

	switch params.Published {
	case "true":
		published := true
		plan.Published = &published
	case "false":
		published := false
		plan.Published = &published
	}

	if search := strings.TrimSpace(params.Query); search != "" {
		plan.Search = search
		plan.Sort = entity.SortRankDesc
	}

	return plan
}

func (p *listingQueryPlanner) page(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}

	return min(page, maxListingPage)
}

func (p *listingQueryPlanner) limit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		// Out-of-range numbers fail Atoi with ErrRange; they are still numeric.
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			if strings.HasPrefix(strings.TrimSpace(raw), "-") {
				return 1
			}

			return p.maxLimit
		}

		return p.defaultLimit
	}

	return max(1, min(limit, p.maxLimit))
}
