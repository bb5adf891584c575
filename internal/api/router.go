package api

import (
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/batch"
	"github.com/kasaapp/kasa/internal/billing"
	"github.com/kasaapp/kasa/internal/cache"
	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/config"
	"github.com/kasaapp/kasa/internal/handlers"
	"github.com/kasaapp/kasa/internal/mailer"
	"github.com/kasaapp/kasa/internal/middleware"
	"github.com/kasaapp/kasa/internal/services"
	"github.com/kasaapp/kasa/internal/ws"
)

// SetupRouter configures all routes and returns the router
func SetupRouter(
	db *gorm.DB,
	redisClient *redis.Client,
	wsHub *ws.Hub,
	cfg *config.Config,
) *mux.Router {
	router := mux.NewRouter()

	// Health check, metrics, and websocket endpoints
	router.HandleFunc("/api/health", HealthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/ws", wsHub.HandleWebSocket)

	// Create the calculation engine and its cache
	engine := calc.NewEngine(db)
	calcCache := cache.NewCalculationCache(redisClient)

	// Create services
	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)
	familyService := services.NewFamilyService(db)
	memberService := services.NewMemberService(db)
	paymentService := services.NewPaymentService(db, engine)
	withdrawalService := services.NewWithdrawalService(db)
	lifecycleService := services.NewLifecycleService(db, engine)
	planService := services.NewPlanService(db)
	statementService := services.NewStatementService(db)
	recycleService := services.NewRecycleService(db)

	statementGenerator := batch.NewStatementGenerator(db, engine)
	statementMailer := mailer.NewMailer(cfg.SMTP)
	billingService := billing.NewBilling(cfg.Stripe, paymentService)

	// Create handlers using services
	authHandler := handlers.NewAuthHandler(authService, cfg.JWT.SecretKey)
	userHandler := handlers.NewUserHandler(userService)
	familyHandler := handlers.NewFamilyHandler(familyService, memberService, engine)
	memberHandler := handlers.NewMemberHandler(memberService, engine)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	lifecycleHandler := handlers.NewLifecycleHandler(lifecycleService)
	planHandler := handlers.NewPlanHandler(planService, userService)
	calculationHandler := handlers.NewCalculationHandler(engine, calcCache, wsHub)
	statementHandler := handlers.NewStatementHandler(statementService, familyService, statementGenerator, statementMailer, wsHub)
	reportHandler := handlers.NewReportHandler(engine)
	analysisHandler := handlers.NewAnalysisHandler(engine)
	recycleHandler := handlers.NewRecycleHandler(recycleService)
	billingHandler := handlers.NewBillingHandler(billingService)

	// Public endpoints (no authentication required)
	router.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/stripe/webhook", billingHandler.Webhook).Methods("POST")

	// Create the API router for authenticated endpoints
	apiRouter := router.PathPrefix("/api").Subrouter()

	authRouter := apiRouter.PathPrefix("").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg.JWT.SecretKey))
	authRouter.Use(middleware.Audit(db))

	// Register routes
	userHandler.RegisterRoutes(authRouter)
	familyHandler.RegisterRoutes(authRouter)
	memberHandler.RegisterRoutes(authRouter)
	paymentHandler.RegisterRoutes(authRouter)
	withdrawalHandler.RegisterRoutes(authRouter)
	lifecycleHandler.RegisterRoutes(authRouter)
	planHandler.RegisterRoutes(authRouter)
	calculationHandler.RegisterRoutes(authRouter)
	statementHandler.RegisterRoutes(authRouter)
	reportHandler.RegisterRoutes(authRouter)
	analysisHandler.RegisterRoutes(authRouter)
	recycleHandler.RegisterRoutes(authRouter)
	billingHandler.RegisterRoutes(authRouter)

	return router
}
