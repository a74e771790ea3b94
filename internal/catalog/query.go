package catalog

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/models"
)

type SortField string

const (
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

type StatusFilter string

const StatusAll StatusFilter = "all"

const DefaultPageSize = 5

// NameRangeSuffix closes the half-open range used for prefix search:
// names in [term, term+NameRangeSuffix) start with term.
const NameRangeSuffix = "\uf8ff"

// ListQuery describes one page request. The zero value of every optional
// field selects its default:
//
//	Status    all
//	PageSize  DefaultPageSize (or the service's configured default)
//	Sort      name
//	Order     asc
//
// Cursor is the token returned with the previous page; empty for page 0.
type ListQuery struct {
	OwnerID  primitive.ObjectID
	Search   string
	Status   StatusFilter
	PageSize int
	Sort     SortField
	Order    SortOrder
	Cursor   string
}

// QueryShape is everything in a ListQuery except the cursor. Cursors are
// only meaningful for the shape they were produced under.
type QueryShape struct {
	OwnerID  primitive.ObjectID
	Search   string
	Status   StatusFilter
	PageSize int
	Sort     SortField
	Order    SortOrder
}

func (q ListQuery) WithDefaults(pageSize int) ListQuery {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	if q.Status == "" {
		q.Status = StatusAll
	}
	if q.PageSize <= 0 {
		if pageSize <= 0 {
			pageSize = DefaultPageSize
		}
		q.PageSize = pageSize
	}
	if q.Sort == "" {
		q.Sort = SortByName
	}
	if q.Order == "" {
		q.Order = Ascending
	}
	q.Cursor = strings.TrimSpace(q.Cursor)
	return q
}

func (q ListQuery) Ascending() bool {
	return q.Order != Descending
}

// Degraded reports a prefix search combined with any order other than name
// ascending. Such queries yield an empty page instead of running.
func (q ListQuery) Degraded() bool {
	return q.Search != "" && (q.Sort != SortByName || !q.Ascending())
}

func (q ListQuery) Shape() QueryShape {
	return QueryShape{
		OwnerID:  q.OwnerID,
		Search:   q.Search,
		Status:   q.Status,
		PageSize: q.PageSize,
		Sort:     q.Sort,
		Order:    q.Order,
	}
}

// SameShape reports whether cursors produced under q remain valid for other
// when an unset page size falls back to defaultPageSize.
func (q ListQuery) SameShape(other ListQuery, defaultPageSize int) bool {
	return q.WithDefaults(defaultPageSize).Shape() == other.WithDefaults(defaultPageSize).Shape()
}

// Validate expects a query that already went through WithDefaults.
func (q ListQuery) Validate(maxPageSize int) error {
	verr := &ValidationError{}
	if q.OwnerID.IsZero() {
		verr.add("ownerId", "ownerId is required")
	}
	if !validStatusFilter(q.Status) {
		verr.add("status", "status must be one of all, available, expiringSoon, expired")
	}
	if q.Sort != SortByName && q.Sort != SortByPrice {
		verr.add("sort", "sort must be name or price")
	}
	if q.Order != Ascending && q.Order != Descending {
		verr.add("order", "order must be asc or desc")
	}
	if maxPageSize > 0 && q.PageSize > maxPageSize {
		verr.add("pageSize", "pageSize is too large")
	}
	return verr.orNil()
}

// Criteria translates the query into a store request for one page.
func (q ListQuery) Criteria() (Criteria, error) {
	c := Criteria{
		OwnerID:    q.OwnerID,
		Status:     statusOf(q.Status),
		NamePrefix: q.Search,
		Sort:       q.Sort,
		Ascending:  q.Ascending(),
		Limit:      q.PageSize,
	}
	if q.Cursor != "" {
		pos, err := DecodeCursor(q.Cursor)
		if err != nil {
			return Criteria{}, err
		}
		if pos.Field != q.Sort {
			verr := &ValidationError{}
			verr.add("cursor", "cursor does not match the requested sort")
			return Criteria{}, verr
		}
		c.After = &pos
	}
	return c, nil
}

// CountQuery selects the same records as a ListQuery without paging.
type CountQuery struct {
	OwnerID primitive.ObjectID
	Search  string
	Status  StatusFilter
}

func (q ListQuery) CountQuery() CountQuery {
	return CountQuery{OwnerID: q.OwnerID, Search: q.Search, Status: q.Status}
}

func (q CountQuery) normalize() CountQuery {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	if q.Status == "" {
		q.Status = StatusAll
	}
	return q
}

func (q CountQuery) validate() error {
	verr := &ValidationError{}
	if q.OwnerID.IsZero() {
		verr.add("ownerId", "ownerId is required")
	}
	if !validStatusFilter(q.Status) {
		verr.add("status", "status must be one of all, available, expiringSoon, expired")
	}
	return verr.orNil()
}

func (q CountQuery) criteria() Criteria {
	return Criteria{
		OwnerID:    q.OwnerID,
		Status:     statusOf(q.Status),
		NamePrefix: q.Search,
		Sort:       SortByName,
		Ascending:  true,
	}
}

// Criteria is a store-neutral description of a single read: an AND of
// owner, optional status and optional name range, ordered by Sort then by
// id, starting strictly after After and returning at most Limit records
// (0 means no limit).
type Criteria struct {
	OwnerID    primitive.ObjectID
	Status     models.ProductStatus
	NamePrefix string
	Sort       SortField
	Ascending  bool
	After      *Position
	Limit      int
}

// NameRange returns the bounds of the prefix search, lower inclusive and
// upper exclusive.
func (c Criteria) NameRange() (string, string) {
	return c.NamePrefix, c.NamePrefix + NameRangeSuffix
}

func validStatusFilter(s StatusFilter) bool {
	switch s {
	case StatusAll,
		StatusFilter(models.StatusAvailable),
		StatusFilter(models.StatusExpiringSoon),
		StatusFilter(models.StatusExpired):
		return true
	}
	return false
}

func statusOf(s StatusFilter) models.ProductStatus {
	if s == StatusAll {
		return ""
	}
	return models.ProductStatus(s)
}
