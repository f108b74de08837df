package router

import (
	"time"

	"cargohub/internal/config"
	"cargohub/internal/handler"
	"cargohub/internal/infra"
	"cargohub/internal/middleware"
	"cargohub/internal/repository"
	"cargohub/internal/service"
	"cargohub/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pricer infra.Pricer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	carrierRepo := repository.NewCarrierRepository(db)
	truckRepo := repository.NewTruckRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	billingRepo := repository.NewBillingRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, rdb, dispatcher, cfg)
	clientSvc := service.NewClientService(clientRepo)
	carrierSvc := service.NewCarrierService(carrierRepo, truckRepo, routeRepo)
	truckSvc := service.NewTruckService(truckRepo, carrierRepo)
	billingSvc := service.NewBillingService(billingRepo, requestRepo, pricer, dispatcher, cfg)
	routeSvc := service.NewRouteService(routeRepo, carrierRepo, truckRepo, requestRepo, billingSvc)
	requestSvc := service.NewRequestService(requestRepo, routeRepo, clientRepo)
	dashboardSvc := service.NewDashboardService(carrierRepo, truckRepo, routeRepo, requestRepo, billingRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	carriersH := handler.NewCarriersHandler(carrierSvc)
	trucksH := handler.NewTrucksHandler(truckSvc)
	routesH := handler.NewRoutesHandler(routeSvc)
	requestsH := handler.NewRequestsHandler(requestSvc)
	billingH := handler.NewBillingHandler(billingSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/verify-2fa", middleware.LoginRateLimiter(), authH.VerifyTwoFactor)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: admin, operator, client — declared per-endpoint
		staff := middleware.RequireRole("admin", "operator")
		anyRole := middleware.RequireRole("admin", "operator", "client")

		carriers := v1.Group("/carriers", staff)
		{
			carriers.POST("", carriersH.Create)
			carriers.GET("", carriersH.List)
			carriers.GET("/:id", carriersH.Get)
			carriers.PUT("/:id", carriersH.Update)
			carriers.PATCH("/:id/status", carriersH.UpdateStatus)
			carriers.POST("/:id/truck", carriersH.AssignTruck)
			carriers.DELETE("/:id/truck", carriersH.UnassignTruck)
			carriers.DELETE("/:id", middleware.RequireRole("admin"), carriersH.Delete)
		}

		trucks := v1.Group("/trucks", staff)
		{
			trucks.POST("", trucksH.Create)
			trucks.GET("", trucksH.List)
			trucks.GET("/:id", trucksH.Get)
			trucks.PUT("/:id", trucksH.Update)
			trucks.PATCH("/:id/status", trucksH.UpdateStatus)
			trucks.DELETE("/:id", middleware.RequireRole("admin"), trucksH.Delete)
		}

		routes := v1.Group("/routes", staff)
		{
			routes.POST("", routesH.Create)
			routes.GET("", routesH.List)
			routes.GET("/:id", routesH.Get)
			routes.PUT("/:id", routesH.Update)
			routes.PATCH("/:id/status", routesH.UpdateStatus)
			routes.POST("/:id/carrier", routesH.AssignCarrier)
			routes.DELETE("/:id/carrier", routesH.UnassignCarrier)
			routes.DELETE("/:id", routesH.Delete)
		}

		// Clients may submit and follow their own requests
		v1.POST("/requests", anyRole, requestsH.Create)
		v1.GET("/requests", anyRole, requestsH.List)
		v1.GET("/requests/:id", anyRole, requestsH.Get)
		v1.PATCH("/requests/:id/status", staff, requestsH.UpdateStatus)

		billing := v1.Group("/billing", staff)
		{
			billing.GET("", billingH.List)
			billing.GET("/:id", billingH.Get)
			billing.POST("/:id/pay", billingH.MarkPaid)
			billing.POST("/:id/cancel", middleware.RequireRole("admin"), billingH.Cancel)
		}

		clients := v1.Group("/clients", staff)
		{
			clients.POST("", clientsH.Create)
			clients.GET("", clientsH.List)
			clients.GET("/:id", clientsH.Get)
			clients.PUT("/:id", clientsH.Update)
			clients.DELETE("/:id", clientsH.Deactivate)
			clients.PATCH("/:id/reactivate", clientsH.Reactivate)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}

		v1.GET("/dashboard", staff, dashboardH.Overview)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
