package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecofood/internal/accounts"
	"ecofood/internal/models"
)

// companyView is the part of a company account shown to clients.
type companyView struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address,omitempty"`
	Commune     string `json:"commune,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

func ListCompanies(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /client/companies"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		companies, err := svc.List(ctx, models.RoleCompany)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		out := make([]companyView, 0, len(companies))
		for _, a := range companies {
			if !a.EmailVerified {
				continue
			}
			out = append(out, companyView{
				ID:          a.ID.Hex(),
				CompanyName: a.CompanyName,
				Address:     a.Address,
				Commune:     a.Commune,
				Phone:       a.Phone,
			})
		}
		c.JSON(http.StatusOK, gin.H{"data": out})
	}
}

// ListCompanyProducts returns every product of one company, unpaged, in
// name order. Used by clients and admins.
func ListCompanyProducts(svc AccountService, products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		defer handlePanic(c, route)

		companyID, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		company, err := svc.Get(ctx, companyID)
		if err != nil && !errors.Is(err, accounts.ErrNotFound) {
			respondServiceError(c, route, err)
			return
		}
		if err != nil || company.Role != models.RoleCompany {
			respondWithError(c, http.StatusNotFound, route, "company not found")
			return
		}

		list, err := products.ListAll(ctx, companyID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}
