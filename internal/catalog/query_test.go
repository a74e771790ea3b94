package catalog

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/models"
)

func TestListQueryWithDefaults(t *testing.T) {
	q := ListQuery{OwnerID: primitive.NewObjectID(), Search: "  BREAD "}.WithDefaults(0)

	if q.Status != StatusAll {
		t.Fatalf("want status all, got %q", q.Status)
	}
	if q.PageSize != DefaultPageSize {
		t.Fatalf("want page size %d, got %d", DefaultPageSize, q.PageSize)
	}
	if q.Sort != SortByName || q.Order != Ascending {
		t.Fatalf("want name asc, got %s %s", q.Sort, q.Order)
	}
	if q.Search != "bread" {
		t.Fatalf("want normalized search, got %q", q.Search)
	}

	if got := (ListQuery{}).WithDefaults(20).PageSize; got != 20 {
		t.Fatalf("want configured default 20, got %d", got)
	}
}

func TestListQueryDegraded(t *testing.T) {
	tests := []struct {
		name  string
		query ListQuery
		want  bool
	}{
		{"no search", ListQuery{Sort: SortByPrice, Order: Descending}, false},
		{"search name asc", ListQuery{Search: "bread", Sort: SortByName, Order: Ascending}, false},
		{"search name desc", ListQuery{Search: "bread", Sort: SortByName, Order: Descending}, true},
		{"search price asc", ListQuery{Search: "bread", Sort: SortByPrice, Order: Ascending}, true},
		{"search price desc", ListQuery{Search: "bread", Sort: SortByPrice, Order: Descending}, true},
		{"blank search", ListQuery{Search: "   ", Sort: SortByPrice}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.WithDefaults(0).Degraded(); got != tt.want {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestListQueryValidate(t *testing.T) {
	owner := primitive.NewObjectID()
	tests := []struct {
		name      string
		query     ListQuery
		wantField string
	}{
		{name: "valid", query: ListQuery{OwnerID: owner}},
		{name: "valid status", query: ListQuery{OwnerID: owner, Status: StatusFilter(models.StatusExpired)}},
		{name: "missing owner", query: ListQuery{}, wantField: "ownerId"},
		{name: "unknown status", query: ListQuery{OwnerID: owner, Status: "stale"}, wantField: "status"},
		{name: "unknown sort", query: ListQuery{OwnerID: owner, Sort: "createdAt"}, wantField: "sort"},
		{name: "unknown order", query: ListQuery{OwnerID: owner, Order: "up"}, wantField: "order"},
		{name: "page too large", query: ListQuery{OwnerID: owner, PageSize: 51}, wantField: "pageSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.WithDefaults(0).Validate(50)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Fields[0].Field != tt.wantField {
				t.Fatalf("want violation on %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestListQueryCriteria(t *testing.T) {
	owner := primitive.NewObjectID()
	q := ListQuery{
		OwnerID: owner,
		Search:  "pan",
		Status:  StatusFilter(models.StatusExpiringSoon),
	}.WithDefaults(0)

	c, err := q.Criteria()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.OwnerID != owner || c.Status != models.StatusExpiringSoon || c.Limit != DefaultPageSize {
		t.Fatalf("unexpected criteria %+v", c)
	}
	if c.After != nil {
		t.Fatal("page 0 must not carry a cursor")
	}
	lo, hi := c.NameRange()
	if lo != "pan" || hi != "pan\uf8ff" {
		t.Fatalf("want [pan, pan\\uf8ff), got [%q, %q)", lo, hi)
	}

	all, _ := ListQuery{OwnerID: owner}.WithDefaults(0).Criteria()
	if all.Status != "" {
		t.Fatalf("status all must not filter, got %q", all.Status)
	}
}

func TestListQueryCriteriaRejectsCursorOfOtherSort(t *testing.T) {
	token, err := EncodeCursor(Position{Field: SortByPrice, Price: 10, ID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	q := ListQuery{OwnerID: primitive.NewObjectID(), Cursor: token}.WithDefaults(0)
	var verr *ValidationError
	if _, err := q.Criteria(); !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}
}
