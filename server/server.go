package server

import (
	"telemetry-server/confs"
	"telemetry-server/db"
	"telemetry-server/handlers"
	httpHandler "telemetry-server/handlers/http"
	"telemetry-server/repositories"
	"telemetry-server/usecases"
	"telemetry-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app *gin.Engine
	db  db.Database
}

func NewServer(database db.Database) *Server {
	return &Server{
		app: gin.Default(),
		db:  database,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	tokenRepo := repositories.NewTokenPgRepository(s.db)
	sensorRepo := repositories.NewSensorPgRepository(s.db)
	readingRepo := repositories.NewReadingPgRepository(s.db)

	// Initialize use cases
	authUseCase := usecases.NewAuthUseCase(userRepo, tokenRepo)
	sensorUseCase := usecases.NewSensorUseCase(sensorRepo, readingRepo)

	// WebSocket manager for the live reading feed
	manager := ws.NewManager()

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(authUseCase)
	sensorHandler := httpHandler.NewSensorHandler(sensorUseCase)
	readingHandler := httpHandler.NewReadingHandler(sensorUseCase, manager)
	feedHandler := handlers.NewFeedHandler(manager, authUseCase)

	// Setup API routes
	api := s.app.Group("/api")
	{
		// Auth routes (no bearer token required)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/token", authHandler.Login)
		}

		// Sensor routes, all scoped to the authenticated owner
		sensors := api.Group("/sensors", httpHandler.RequireAuth(authUseCase))
		{
			sensors.GET("", sensorHandler.ListSensors)
			sensors.POST("", sensorHandler.CreateSensor)
			sensors.GET("/:id", sensorHandler.GetSensor)
			sensors.PUT("/:id", sensorHandler.UpdateSensor)
			sensors.DELETE("/:id", sensorHandler.DeleteSensor)
			sensors.GET("/:id/readings", readingHandler.ListReadings)
			sensors.POST("/:id/readings", readingHandler.CreateReading)
		}
	}

	s.app.GET("/ws", feedHandler.HandleFeedWS)

	return s.app
}

func (s *Server) Start() {
	if err := s.Router().Run(confs.ListenAddr()); err != nil {
		panic(err)
	}
}
