package app

import (
	"amadeus_backend/docs"
	"amadeus_backend/internal/config"
	"amadeus_backend/internal/middleware"
	"amadeus_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		a.registerQuestionaryRoutes(authGroup, c)
		a.registerReportRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	admin := router.Group("/api")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.StaffMiddleware())
	{
		admin.GET("/logs", c.log.List)
	}
}

func (a *App) registerQuestionaryRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/topics/:slug/questionaries", c.questionary.Create)
	rg.PUT("/topics/:slug/questionaries/:questionarySlug", c.questionary.Update)

	questionaries := rg.Group("/questionaries")
	{
		questionaries.GET("/count", c.questionary.CountQuestions)
		questionaries.POST("/answer", c.questionary.Answer)
		questionaries.GET("/:slug", c.questionary.View)
		questionaries.DELETE("/:slug", c.questionary.Delete)
		questionaries.GET("/:slug/statistics", c.questionary.Statistics)
		questionaries.POST("/:slug/messages", c.questionary.SendMessage)
	}
}

func (a *App) registerReportRoutes(rg *gin.RouterGroup, c *controllers) {
	reports := rg.Group("/reports")
	{
		reports.GET("/resources", c.report.Resources)
		reports.GET("/tags", c.report.Tags)
		reports.POST("/interactions", c.report.Interactions)
		reports.GET("/download/csv", c.report.DownloadCSV)
		reports.GET("/download/xls", c.report.DownloadXLS)
	}
}
