// Package query builds the filtered, sorted and paginated SQL used by the
// entity repositories and folds joined rows back into aggregate entities.
package query

import (
	"math"
	"strings"
)

// MaxPageSize is the hard ceiling applied to every page's LIMIT. It is also the
// default page size when none is requested.
const MaxPageSize = 1000

// Spec is a normalised request for one page of entities.
type Spec struct {
	IDs      []int64
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// Normalize applies defaults so Page and PageSize are always usable. The
// requested page size is kept as-is; the ceiling only applies to Limit. Pages
// too far out to address are pulled back to the last representable offset.
func (s Spec) Normalize() Spec {
	s.Search = strings.TrimSpace(s.Search)
	s.Sort = strings.TrimSpace(s.Sort)
	if s.Page < 0 {
		s.Page = 0
	}
	if s.PageSize <= 0 {
		s.PageSize = MaxPageSize
	}
	// Page*PageSize must stay representable; a clamped page is simply empty.
	if s.Page > math.MaxInt/s.PageSize {
		s.Page = math.MaxInt / s.PageSize
	}
	return s
}

// Limit is the number of parent rows read for the page.
func (s Spec) Limit() int {
	return min(s.PageSize, MaxPageSize)
}

// Offset is computed from the requested page size so page boundaries stay
// stable for repeated requests with the same parameters.
func (s Spec) Offset() int {
	return s.Page * s.PageSize
}
