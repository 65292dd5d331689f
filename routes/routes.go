package routes

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"garagebill-backend/config"
	"garagebill-backend/controllers"
	"garagebill-backend/utils"
)

// Controllers collects the injected handler sets; nothing reaches for
// globals.
type Controllers struct {
	Auth      *controllers.AuthController
	Invoices  *controllers.InvoiceController
	Settings  *controllers.SettingsController
	Dashboard *controllers.DashboardController
	Reports   *controllers.ReportController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", ctrl.Auth.Me)
		auth.POST("/change-password", ctrl.Auth.ChangePassword)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", ctrl.Invoices.CreateInvoice)
			invoices.GET("", ctrl.Invoices.GetInvoices)
			invoices.GET("/next-number", ctrl.Invoices.NextNumber)
			invoices.GET("/:number", ctrl.Invoices.GetInvoice)
			invoices.PUT("/:number", ctrl.Invoices.UpdateInvoice)
			invoices.DELETE("/:number", ctrl.Invoices.DeleteInvoice)
			invoices.GET("/:number/pdf", ctrl.Invoices.DownloadPDF)
		}

		// Preview hand-off routes
		preview := api.Group("/preview")
		{
			preview.POST("", ctrl.Invoices.CreatePreview)
			preview.GET("/:token", ctrl.Invoices.GetPreview)
		}

		// Settings routes
		settings := api.Group("/settings")
		{
			settings.GET("", ctrl.Settings.GetSettings)
			settings.PUT("", ctrl.Settings.UpdateSettings)
			settings.POST("/images/:kind", ctrl.Settings.UploadImage)
			settings.DELETE("/images/:kind", ctrl.Settings.DeleteImage)
		}

		// Dashboard routes
		api.GET("/dashboard", ctrl.Dashboard.GetDashboardOverview)

		// Reports routes
		api.GET("/reports", ctrl.Reports.GetReportAnalytics)
	}

	return r
}

func allowedOrigins() []string {
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}
