package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/catalog"
	"ecofood/internal/models"
)

var errInvalidPageSize = errors.New("pageSize must be a positive integer")

type paginationMeta struct {
	PageSize   int    `json:"pageSize"`
	NextCursor string `json:"nextCursor"`
	HasMore    bool   `json:"hasMore"`
	Total      *int64 `json:"total,omitempty"`
}

type pageResponse struct {
	Data       []models.Product `json:"data"`
	Pagination paginationMeta   `json:"pagination"`
}

func statusQuery(c *gin.Context) catalog.StatusFilter {
	return catalog.StatusFilter(strings.TrimSpace(c.Query("status")))
}

// parseListQuery reads search, status, pageSize, sort, order and cursor.
// Unknown enum values are left for the service to reject.
func parseListQuery(c *gin.Context, ownerID primitive.ObjectID) (catalog.ListQuery, error) {
	q := catalog.ListQuery{
		OwnerID: ownerID,
		Search:  c.Query("search"),
		Status:  statusQuery(c),
		Sort:    catalog.SortField(strings.ToLower(strings.TrimSpace(c.Query("sort")))),
		Order:   catalog.SortOrder(strings.ToLower(strings.TrimSpace(c.Query("order")))),
		Cursor:  c.Query("cursor"),
	}

	if raw := strings.TrimSpace(c.Query("pageSize")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return catalog.ListQuery{}, errInvalidPageSize
		}
		q.PageSize = size
	}
	return q, nil
}

func newPageResponse(page catalog.Page, total *int64) pageResponse {
	return pageResponse{
		Data: page.Products,
		Pagination: paginationMeta{
			PageSize:   page.PageSize,
			NextCursor: page.NextCursor,
			HasMore:    page.HasMore,
			Total:      total,
		},
	}
}
