package routes

import (
	"context"
	"log"
	"strconv"

	_ "partner_repairs/docs" // This will be auto-generated
	"partner_repairs/internal/adapter/http/handlers"
	"partner_repairs/internal/adapter/persistence/memory"
	"partner_repairs/internal/adapter/persistence/repository"
	"partner_repairs/internal/infrastructure/config"
	"partner_repairs/internal/infrastructure/database"
	"partner_repairs/internal/infrastructure/metrics"
	"partner_repairs/internal/infrastructure/storage"
	"partner_repairs/internal/infrastructure/tracing"
	"partner_repairs/internal/usecase"
	"partner_repairs/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const PathMetrics = "/metrics"

// stores is the persistence the coordinators run against. photos is nil
// when no bucket is configured.
type stores struct {
	requests  interfaces.IRequestRepository
	vehicles  interfaces.IVehicleRepository
	photoSets interfaces.IPhotoSetRepository
	tx        interfaces.ITransactor
	photos    interfaces.IPhotoStorage
}

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("[routes] tracing shutdown error: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := setupRouter(cfg, connectStores(ctx, cfg), reg)

	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		log.Printf("Failed to startup the application: %v", err.Error())
	}
}

func connectStores(ctx context.Context, cfg config.Config) stores {
	var s stores
	if cfg.UseMemory {
		log.Printf("[routes] using in-memory store")
		mem := memory.NewStore()
		s = stores{requests: mem.Requests(), vehicles: mem.Vehicles(), photoSets: mem.PhotoSets(), tx: mem.Transactor()}
	} else {
		ddb := database.ConnectDynamoDB(ctx, cfg.AWS)
		tables := repository.Tables{Requests: cfg.Tables.Requests, Vehicles: cfg.Tables.Vehicles, PhotoSets: cfg.Tables.PhotoSets}
		s = stores{
			requests:  repository.NewRequestDynamoRepository(ddb, tables),
			vehicles:  repository.NewVehicleDynamoRepository(ddb, tables),
			photoSets: repository.NewPhotoSetDynamoRepository(ddb, tables),
			tx:        repository.NewDynamoTransactor(ddb, tables),
		}
	}

	if cfg.Photos.Bucket == "" {
		log.Printf("[routes] PHOTOS_BUCKET not set; photo copies disabled")
		return s
	}
	awsCfg, err := database.NewAWSConfig(ctx, cfg.AWS)
	if err != nil {
		log.Fatalf("failed to create s3 config: %v", err)
	}
	photos, err := storage.NewS3PhotoStorage(storage.NewS3Client(awsCfg, cfg.AWS.S3Endpoint), cfg.Photos.Bucket)
	if err != nil {
		log.Printf("[routes] photo storage not configured: %v", err)
		return s
	}
	s.photos = photos
	return s
}

func setupRouter(cfg config.Config, s stores, reg *prometheus.Registry) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, metrics.NewServerMetrics(reg))

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET(PathMetrics, gin.WrapH(metrics.Handler(reg)))

	coordinatorMetrics := metrics.NewCoordinatorMetrics(reg)

	requestUseCase := usecase.NewRequestUseCase(s.requests)
	quoteUseCase := usecase.NewQuoteUseCase(s.requests)
	acceptanceUseCase := usecase.NewAcceptanceUseCase(s.requests, s.vehicles, s.photoSets, s.tx, s.photos,
		usecase.WithAcceptMaxAttempts(cfg.Coordinator.AcceptMaxAttempts),
		usecase.WithAcceptanceMetrics(coordinatorMetrics),
	)
	cancellationUseCase := usecase.NewCancellationUseCase(s.requests, s.vehicles, s.photoSets, s.tx, s.photos,
		usecase.WithCancelMaxAttempts(cfg.Coordinator.AcceptMaxAttempts),
		usecase.WithSweepPasses(cfg.Coordinator.SweepPasses),
		usecase.WithCancellationMetrics(coordinatorMetrics),
	)
	vehicleUseCase := usecase.NewVehicleUseCase(s.vehicles, s.requests, s.photoSets, s.photos)

	requestHandler := handlers.NewRepairRequestHandler(requestUseCase, quoteUseCase, acceptanceUseCase, cancellationUseCase)
	vehicleHandler := handlers.NewVehicleHandler(vehicleUseCase, cancellationUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addRequestRoutes(v1, requestHandler)
	addVehicleRoutes(v1, vehicleHandler)
	return router
}

func setMiddlewares(router *gin.Engine, serverMetrics *metrics.ServerMetrics) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
	router.Use(serverMetrics.Middleware())
}
