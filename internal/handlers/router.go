package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecofood/internal/middleware"
)

type Dependencies struct {
	Products     ProductService
	Accounts     AccountService
	Health       HealthChecker
	LoginLimiter middleware.AttemptLimiter
	JWTSecret    string
	// Gatherer serves /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	metricsHandler := promhttp.Handler()
	if deps.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))
	r.GET("/healthz", Health(deps.Health))

	auth := r.Group("/auth")
	{
		auth.POST("/register", Register(deps.Accounts))
		auth.POST("/login", middleware.LoginRateLimit(deps.LoginLimiter), Login(deps.Accounts))
		auth.POST("/refresh", Refresh(deps.Accounts))
		auth.POST("/logout", Logout(deps.Accounts))
		auth.POST("/verify", VerifyEmail(deps.Accounts))
		auth.POST("/password-reset", RequestPasswordReset(deps.Accounts))
		auth.POST("/password-reset/confirm", ConfirmPasswordReset(deps.Accounts))
		auth.GET("/me", middleware.AuthGuard(deps.JWTSecret), GetMe(deps.Accounts))
		auth.PUT("/me", middleware.AuthGuard(deps.JWTSecret), UpdateMe(deps.Accounts))
	}

	company := r.Group("/company")
	company.Use(middleware.CompanyAuth(deps.JWTSecret))
	{
		company.GET("/products", ListProducts(deps.Products))
		company.GET("/products/count", CountProducts(deps.Products))
		company.GET("/products/:id", GetProduct(deps.Products))
		company.POST("/products", CreateProduct(deps.Products))
		company.PUT("/products/:id", UpdateProduct(deps.Products))
		company.DELETE("/products/:id", DeleteProduct(deps.Products))
	}

	client := r.Group("/client")
	client.Use(middleware.ClientAuth(deps.JWTSecret))
	{
		client.GET("/companies", ListCompanies(deps.Accounts))
		client.GET("/companies/:id/products", ListCompanyProducts(deps.Accounts, deps.Products))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(deps.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		admin.GET("/accounts", ListAccounts(deps.Accounts))
		admin.POST("/admins", CreateAdmin(deps.Accounts))
		admin.PUT("/accounts/:id", UpdateAccount(deps.Accounts))
		admin.DELETE("/accounts/:id", DeleteAccount(deps.Accounts))
		admin.GET("/companies/:id/products", ListCompanyProducts(deps.Accounts, deps.Products))
	}
}
