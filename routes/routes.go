package routes

import (
	"symptracker/controllers"
	"symptracker/middlewares"
	"symptracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the HTTP layer is built from.
type Deps struct {
	Store     services.StorageManager
	Analytics *services.AnalyticsService
	Trainer   *services.TrainerService
	Auth      *services.AuthService
	Uploader  controllers.Uploader // optional
	JWTSecret string               // empty leaves /api open
	Logger    *zap.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Logger))

	r.GET("/health", controllers.Health)

	authCtl := controllers.NewAuthController(d.Auth)
	auth := r.Group("/auth")
	{
		auth.POST("/login", authCtl.Login)
	}

	entryCtl := controllers.NewEntryController(d.Store, d.Logger)
	analyticsCtl := controllers.NewAnalyticsController(d.Analytics, d.Logger)
	treeCtl := controllers.NewTreeController(d.Trainer, d.Logger)
	exportCtl := controllers.NewExportController(d.Store, d.Uploader, d.Logger)

	api := r.Group("/api")
	if d.JWTSecret != "" {
		api.Use(middlewares.AuthMiddleware(d.JWTSecret))
	}
	{
		api.GET("/schema", entryCtl.GetSchema)
		api.GET("/entries", entryCtl.ListEntries)
		api.POST("/entries", entryCtl.CreateEntry)

		api.GET("/dashboard", analyticsCtl.GetDashboard)
		api.GET("/stats", analyticsCtl.GetStatistics)

		api.GET("/tree/options", treeCtl.GetOptions)
		api.POST("/tree", treeCtl.GenerateTree)

		api.GET("/export/csv", exportCtl.DownloadCSV)
		api.POST("/export/s3", exportCtl.UploadS3)
	}

	return r
}
