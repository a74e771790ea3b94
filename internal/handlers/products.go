package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/catalog"
	"ecofood/internal/models"
)

// ProductService is the catalog as seen by handlers.
type ProductService interface {
	ListPage(ctx context.Context, q catalog.ListQuery) (catalog.Page, error)
	Count(ctx context.Context, q catalog.CountQuery) (int64, error)
	Browse(ctx context.Context, q catalog.ListQuery) (catalog.Listing, error)
	ListAll(ctx context.Context, ownerID primitive.ObjectID) ([]models.Product, error)
	Get(ctx context.Context, ownerID, id primitive.ObjectID) (models.Product, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, in catalog.ProductInput) (models.Product, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, in catalog.ProductInput) (models.Product, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
}

// ListProducts returns one page of the signed-in company's products plus
// the total. Pass withTotal=false to skip the count.
func ListProducts(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /company/products"
		defer handlePanic(c, route)

		ownerID, ok := currentAccount(c, route)
		if !ok {
			return
		}
		q, err := parseListQuery(c, ownerID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if c.Query("withTotal") == "false" {
			page, err := products.ListPage(ctx, q)
			if err != nil {
				respondServiceError(c, route, err)
				return
			}
			c.JSON(http.StatusOK, newPageResponse(page, nil))
			return
		}

		listing, err := products.Browse(ctx, q)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		log.Debug().
			Str("route", route).
			Int("count", len(listing.Products)).
			Int64("total", listing.Total).
			Bool("has_more", listing.HasMore).
			Msg("page served")
		c.JSON(http.StatusOK, newPageResponse(listing.Page, &listing.Total))
	}
}

func CountProducts(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /company/products/count"
		defer handlePanic(c, route)

		ownerID, ok := currentAccount(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		total, err := products.Count(ctx, catalog.CountQuery{
			OwnerID: ownerID,
			Search:  c.Query("search"),
			Status:  statusQuery(c),
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total})
	}
}

func GetProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /company/products/:id"
		defer handlePanic(c, route)

		ownerID, ok := currentAccount(c, route)
		if !ok {
			return
		}
		id, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		p, err := products.Get(ctx, ownerID, id)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func CreateProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /company/products"
		defer handlePanic(c, route)

		ownerID, ok := currentAccount(c, route)
		if !ok {
			return
		}
		var in catalog.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		p, err := products.Create(ctx, ownerID, in)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		log.Info().Str("route", route).Str("product_id", p.ID.Hex()).Msg("product created")
		c.JSON(http.StatusCreated, p)
	}
}

func UpdateProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /company/products/:id"
		defer handlePanic(c, route)

		ownerID, ok := currentAccount(c, route)
		if !ok {
			return
		}
		id, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}
		var in catalog.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		p, err := products.Update(ctx, ownerID, id, in)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func DeleteProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /company/products/:id"
		defer handlePanic(c, route)

		ownerID, ok := currentAccount(c, route)
		if !ok {
			return
		}
		id, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := products.Delete(ctx, ownerID, id); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
