package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/database"
	"github.com/Shubh1hulk/SIH-Demo/knowledge"
	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/routes"
	"github.com/Shubh1hulk/SIH-Demo/services"
	"github.com/Shubh1hulk/SIH-Demo/utils"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.Get()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load the health knowledge base; an empty path means the built-in
	// seed data.
	idx, err := knowledge.Load(cfg.Knowledge.DataPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	diseases, symptoms, vaccinations, alerts := idx.Counts()
	log.Printf("Knowledge base loaded: %d diseases, %d symptoms, %d vaccination schedules, %d seed alerts",
		diseases, symptoms, vaccinations, alerts)

	// Connect the conversation store
	store, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Printf("Failed to close conversation store: %v", err)
		}
	}()

	sessions := database.NewSessionStore(cfg.Chat.SessionTTL, cfg.Chat.SessionSweep)
	defer sessions.Stop()

	subscriptions := database.NewSubscriptionStore()

	// Language layer; with no translation endpoint configured the
	// normalizer runs in pass-through degraded mode.
	translator := services.NewTranslator(cfg.Translation)
	if translator == nil {
		log.Println("No translation endpoint configured, running in pass-through mode")
	}
	normalizer := services.NewLanguageNormalizer(translator, cfg.Chat.DefaultLanguage)

	aiService := services.NewAIService(cfg.AI)
	if aiService.Enabled() {
		log.Println("AI answer service enabled")
	}

	// Outbound channels
	whatsappService := services.NewWhatsAppService(cfg.WhatsApp)
	smsService := services.NewSMSService(cfg.SMS)

	senders := map[models.MessageChannel]services.AlertSender{}
	if whatsappService.Enabled() {
		senders[models.ChannelWhatsApp] = services.AlertSenderFunc(whatsappService.SendTextMessage)
		log.Println("WhatsApp channel enabled")
	} else {
		log.Println("WARNING: WhatsApp channel disabled, set WHATSAPP_ACCESS_TOKEN to enable")
	}
	if smsService.Enabled() {
		senders[models.ChannelSMS] = services.AlertSenderFunc(smsService.SendSMS)
		log.Println("SMS channel enabled")
	} else {
		log.Println("WARNING: SMS channel disabled, set Twilio credentials to enable")
	}

	alertService := services.NewAlertService(idx, subscriptions, normalizer, senders, cfg.Alerts, cfg.WhatsApp.DefaultCountryCode)
	reportService := services.NewReportService()

	chatbotService, err := services.NewChatbotService(
		idx,
		normalizer,
		utils.DefaultRules(),
		aiService,
		alertService,
		reportService,
		sessions,
		store,
		cfg.Chat,
	)
	if err != nil {
		log.Fatalf("Failed to build chatbot service: %v", err)
	}

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(corsMiddleware(cfg.Security.AllowedOrigins))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.Fatalf("Failed to set trusted proxies: %v", err)
		}
	}

	routes.SetupRoutes(router, routes.Deps{
		Config:   cfg,
		Index:    idx,
		Store:    store,
		Sessions: sessions,
		Chatbot:  chatbotService,
		Reports:  reportService,
		Alerts:   alertService,
		WhatsApp: whatsappService,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Port)
		log.Printf("WhatsApp webhook URL: http://localhost:%s/api/whatsapp/webhook", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// corsMiddleware allows the configured web widget origins. Preflight
// requests are answered here and never reach the handlers.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimSpace(origin)] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
