package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"ubt-tracker/internal/handler"
	"ubt-tracker/internal/middleware"
	"ubt-tracker/internal/model"
	"ubt-tracker/internal/repository"
	"ubt-tracker/internal/service"
	"ubt-tracker/internal/ws"
	"ubt-tracker/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(&model.User{}, &model.Partner{}, &model.Product{}, &model.ScanLog{})

	// 3. Seed default users and sample partners
	seedDefaultUsers(db)
	seedSamplePartners(db)

	// 4. Setup WebSocket Hub (live scan feed)
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	partnerRepo := repository.NewPartnerRepo(db)
	productRepo := repository.NewProductRepo(db)
	scanLogRepo := repository.NewScanLogRepo(db)

	authService := service.NewAuthService(userRepo)
	partnerService := service.NewPartnerService(partnerRepo, productRepo)
	productService := service.NewProductService(productRepo, partnerRepo, wsHub)
	scanService := service.NewScanService(productRepo, partnerRepo, scanLogRepo, wsHub)
	dashService := service.NewDashboardService(partnerRepo, productRepo, scanLogRepo)

	authHandler := handler.NewAuthHandler(authService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	productHandler := handler.NewProductHandler(productService)
	scanHandler := handler.NewScanHandler(scanService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "UBT Tracker v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify", authHandler.Verify)

	// ============ PROTECTED ROUTES ============
	// All routes below require a valid session
	protected := api.Group("", middleware.RequireAuth())

	protected.Get("/provinces", handler.GetProvinces)

	// Dashboard Routes
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/recent-scans", dashHandler.GetRecentScans)

	// Scan Routes (any authenticated role)
	protected.Get("/products/scan/:qrCode", scanHandler.Resolve)
	protected.Post("/products/scan/:qrCode", scanHandler.Scan)

	// Condition update (any authenticated role)
	protected.Patch("/products/:id", productHandler.UpdateCondition)

	// Product Routes (admin only)
	protected.Get("/products", middleware.RequireAdmin(), productHandler.GetProducts)
	protected.Post("/products", middleware.RequireAdmin(), productHandler.CreateBatch)
	protected.Get("/products/export", middleware.RequireAdmin(), productHandler.Export)
	protected.Get("/products/:id/qrcode", middleware.RequireAdmin(), productHandler.QRCodeImage)

	// Partner Routes (admin only)
	partners := protected.Group("/partners", middleware.RequireAdmin())
	partners.Get("/", partnerHandler.GetPartners)
	partners.Post("/", partnerHandler.CreatePartner)
	partners.Get("/:id", partnerHandler.GetPartner)
	partners.Put("/:id", partnerHandler.UpdatePartner)
	partners.Delete("/:id", partnerHandler.DeletePartner)

	// WebSocket Route (live scan feed)
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaultUsers creates the default admin and operator accounts if no user exists yet
func seedDefaultUsers(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	count, err := userRepo.Count()
	if err != nil {
		log.Printf("Warning: failed to count users: %v", err)
		return
	}
	if count > 0 {
		return
	}

	defaults := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin123", model.RoleAdmin},
		{"operator", "operator123", model.RoleOperator},
	}

	for _, d := range defaults {
		user := &model.User{
			Username: d.username,
			Role:     d.role,
			Active:   true,
		}
		if err := user.SetPassword(d.password); err != nil {
			log.Printf("Warning: failed to hash password for %s: %v", d.username, err)
			continue
		}
		if err := userRepo.Create(user); err != nil {
			log.Printf("Warning: failed to seed user %s: %v", d.username, err)
			continue
		}
		log.Printf("Seeded user %s (%s)", d.username, d.role)
	}
}

// seedSamplePartners registers the starter hospitals if the partner table is empty
func seedSamplePartners(db *gorm.DB) {
	partnerRepo := repository.NewPartnerRepo(db)

	count, err := partnerRepo.Count()
	if err != nil {
		log.Printf("Warning: failed to count partners: %v", err)
		return
	}
	if count > 0 {
		return
	}

	samples := []model.Partner{
		{Name: "RS Cipto Mangunkusumo", Province: "DKI Jakarta", Active: true},
		{Name: "RS Sardjito", Province: "DI Yogyakarta", Active: true},
		{Name: "RS Hasan Sadikin", Province: "Jawa Barat", Active: true},
	}

	for i := range samples {
		if err := partnerRepo.Create(&samples[i]); err != nil {
			log.Printf("Warning: failed to seed partner %s: %v", samples[i].Name, err)
			continue
		}
		log.Printf("Seeded partner %s (%s)", samples[i].Name, samples[i].Province)
	}
}
