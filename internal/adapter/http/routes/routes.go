package routes

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	_ "paystation_two_party/docs" // generated by swag init
	"paystation_two_party/internal/adapter/http/handlers"
	"paystation_two_party/internal/adapter/http/middleware"
	"paystation_two_party/internal/adapter/persistence/repository"
	"paystation_two_party/internal/infrastructure/config"
	"paystation_two_party/internal/infrastructure/database"
	"paystation_two_party/internal/infrastructure/payments"
	"paystation_two_party/internal/usecase"
	"paystation_two_party/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run will start the server
func Run() {
	cfg := config.Load()

	sessionRepo, err := newSessionRepository(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect the session store: %v", err.Error())
	}

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	getRoutes(router, cfg, sessionRepo)

	err = router.Run(":" + strconv.Itoa(cfg.Port))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(r *gin.Engine, cfg config.App, sessionRepo interfaces.ISessionRepository) {
	idleTimeout := time.Duration(cfg.SessionIdleMin) * time.Minute

	paymentGateway := payments.NewPayStationGateway(cfg.PayStation.URL, cfg.PayStation.MockMode)
	paymentUseCase := usecase.NewPaymentUseCase(paymentGateway)
	sessionUseCase := usecase.NewSessionUseCase(sessionRepo, idleTimeout)

	paymentHandler := handlers.NewPaymentHandler(paymentUseCase, cfg.PayStation)

	// Rotas publicas
	v1 := r.Group("/v1")
	addPingRoutes(v1)
	addErrorRoutes(v1)
	addPaymentRoutes(v1, middleware.SessionMiddleware(sessionUseCase, idleTimeout), paymentHandler)
}

func newSessionRepository(ctx context.Context, cfg config.App) (interfaces.ISessionRepository, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		return repository.NewSessionRedisRepository(client), nil
	case config.SessionStoreDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx)
		if err != nil {
			return nil, err
		}
		return repository.NewSessionDynamoRepository(ddb, cfg.SessionsTable), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

func setMiddlewares() {
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
