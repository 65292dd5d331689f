package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"garagebill-backend/config"
	"garagebill-backend/controllers"
	"garagebill-backend/routes"
	"garagebill-backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	st, err := config.OpenStore()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if err := st.SeedDefaultCredential(); err != nil {
		log.Fatalf("Failed to seed credentials: %v", err)
	}

	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = "backups"
	}
	if _, err := services.NewBackupService(st, backupDir).StartScheduler(); err != nil {
		log.Printf("Backup scheduler not started: %v", err)
	}

	pdf := services.NewPDFService()
	notifier := services.NewNotifier()

	r := routes.SetupRouter(routes.Controllers{
		Auth:      controllers.NewAuthController(st),
		Invoices:  controllers.NewInvoiceController(st, pdf, notifier),
		Settings:  controllers.NewSettingsController(st),
		Dashboard: controllers.NewDashboardController(st),
		Reports:   controllers.NewReportController(st),
	})
	printRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
