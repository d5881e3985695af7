package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lumenpaints/erp-backend/internal/api/handler"
	"github.com/lumenpaints/erp-backend/internal/api/middleware"
	"github.com/lumenpaints/erp-backend/internal/core/cache"
	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
	"github.com/lumenpaints/erp-backend/internal/core/service"
)

// Dependencies carries everything the router wires into handlers. The
// services are constructed in main so their lifecycles (inactivity
// monitor, change-feed pump) outlive individual requests.
type Dependencies struct {
	Sessions  *service.SessionManager
	Store     *cache.Store
	Settings  ports.SettingsStore
	Mongo     *mongo.Database
	Postgres  *pgxpool.Pool
	Redis     *redis.Client
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("erp_backend"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	productHandler := handler.NewProductHandler(deps.Store)
	customerHandler := handler.NewCustomerHandler(deps.Store)
	saleHandler := handler.NewSaleHandler(deps.Store)
	settingsHandler := handler.NewSettingsHandler(deps.Settings, deps.Sessions)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Postgres, deps.Redis)

	auth := middleware.Auth(deps.JWTSecret, deps.Sessions)

	// --- Public surface ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated surface ---
	e.POST("/auth/logout", authHandler.Logout, auth)
	e.POST("/auth/register", authHandler.Register, auth, middleware.RequireRole(domain.RoleAdmin))

	v1 := e.Group("/v1", auth)

	// Reads are open to any authenticated role; writes need sales rank,
	// deletes supervisor rank.
	products := v1.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, middleware.RequireRole(domain.RoleSales))
	products.PUT("/:id", productHandler.Update, middleware.RequireRole(domain.RoleSales))
	products.DELETE("/:id", productHandler.Delete, middleware.RequireRole(domain.RoleSupervisor))

	customers := v1.Group("/customers")
	customers.GET("", customerHandler.List)
	customers.GET("/:id", customerHandler.Get)
	customers.POST("", customerHandler.Create, middleware.RequireRole(domain.RoleSales))
	customers.PUT("/:id", customerHandler.Update, middleware.RequireRole(domain.RoleSales))
	customers.DELETE("/:id", customerHandler.Delete, middleware.RequireRole(domain.RoleSupervisor))

	sales := v1.Group("/sales")
	sales.GET("", saleHandler.List)
	sales.GET("/:id", saleHandler.Get)
	sales.POST("", saleHandler.Create, middleware.RequireRole(domain.RoleSales))
	sales.PATCH("/:id/status", saleHandler.UpdateStatus, middleware.RequireRole(domain.RoleSales))
	sales.DELETE("/:id", saleHandler.Delete, middleware.RequireRole(domain.RoleSupervisor))

	settings := v1.Group("/settings")
	settings.GET("", settingsHandler.Get)
	settings.PUT("", settingsHandler.Update, middleware.RequireRole(domain.RoleAdmin))

	return e
}
