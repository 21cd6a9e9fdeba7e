package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"jobscout/internal/config"
	"jobscout/internal/database"
	"jobscout/internal/handlers"
	"jobscout/internal/llm"
	"jobscout/internal/pipeline"
	"jobscout/internal/search"
	"jobscout/internal/services"
)

func main() {
	// 1. Load Environment Variables (.env is optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	// 2. Database Connection
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// 3. Provider Clients — constructed once, shared everywhere
	exa := search.NewExaClient(cfg.ExaAPIKey)

	openaiClient, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		log.Fatal("Failed to create OpenAI client: ", err)
	}
	gen := llm.NewThrottled(openaiClient, cfg.LLMRequestsPerSec)

	// 4. Pipeline + Services
	validator := pipeline.DefaultValidatorConfig()
	validator.MinSignals = cfg.ValidatorMinSignals
	pipe := pipeline.New(exa, gen, validator, cfg.EnrichBatchSize)

	searchService := services.NewSearchService(db, pipe)
	jobService := services.NewJobService(db)
	savedJobService := services.NewSavedJobService(db)

	// 5. Handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	jobHandler := handlers.NewJobHandler(jobService)
	savedJobHandler := handlers.NewSavedJobHandler(savedJobService)

	// 6. Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 7. Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/search", searchHandler.Search)
		api.GET("/searches", jobHandler.ListSearches)
		api.GET("/insights", jobHandler.Insights)

		api.GET("/jobs", jobHandler.ListJobs)
		api.DELETE("/jobs", jobHandler.DeleteSearch)

		api.POST("/saved-jobs", savedJobHandler.Save)
		api.GET("/saved-jobs", savedJobHandler.List)
		api.PUT("/saved-jobs", savedJobHandler.Update)
		api.DELETE("/saved-jobs", savedJobHandler.Delete)
	}

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
