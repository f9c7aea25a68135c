package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/controllers"
	"github.com/Shubh1hulk/SIH-Demo/database"
	"github.com/Shubh1hulk/SIH-Demo/knowledge"
	"github.com/Shubh1hulk/SIH-Demo/middleware"
	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/services"
)

// Deps carries the shared services the route handlers are built from.
// main.go constructs everything once and hands it over.
type Deps struct {
	Config   *config.Config
	Index    *knowledge.Index
	Store    database.ConversationStore
	Sessions *database.SessionStore
	Chatbot  *services.ChatbotService
	Reports  *services.ReportService
	Alerts   *services.AlertService
	WhatsApp *services.WhatsAppService
}

// SetupRoutes registers every endpoint on the router.
func SetupRoutes(router *gin.Engine, deps Deps) {
	chatbotController := controllers.NewChatbotController(deps.Chatbot, deps.Reports, deps.Store)
	healthController := controllers.NewHealthController(deps.Index, deps.Store, deps.Sessions, deps.Config.Chat.EmergencyNumber)
	alertController := controllers.NewAlertController(deps.Alerts)
	wsController := controllers.NewWebSocketController(deps.Chatbot)
	whatsappController := controllers.NewWhatsAppController(deps.WhatsApp, deps.Chatbot)
	smsController := controllers.NewSMSController(deps.Chatbot, deps.Alerts)

	router.GET("/health", healthController.Health)

	public := router.Group("/api/v1")
	{
		// Chat pipeline
		public.POST("/chat", chatbotController.HandleChat)
		public.GET("/ws", wsController.HandleWebSocket)
		public.POST("/assess", chatbotController.HandleAssess)

		// Knowledge base lookups
		public.GET("/diseases/:name", healthController.GetDisease)
		public.GET("/symptoms/:name", healthController.GetSymptom)
		public.GET("/vaccinations", healthController.GetVaccinations)
		public.GET("/emergency", healthController.GetEmergency)

		// Outbreak alerts
		public.GET("/alerts", alertController.GetAlerts)
		public.POST("/alerts", alertController.PublishAlert)
		public.POST("/alerts/subscribe", alertController.Subscribe)
		public.POST("/alerts/unsubscribe", alertController.Unsubscribe)

		// Reports and analytics
		public.GET("/reports/:id/pdf", chatbotController.DownloadReport)
		public.GET("/analytics/dashboard", chatbotController.GetAnalytics)
	}

	whatsapp := router.Group("/api/whatsapp")
	{
		whatsapp.GET("/webhook", whatsappController.VerifyWebhook)
		whatsapp.POST("/webhook",
			middleware.VerifyWhatsAppSignature(deps.Config.WhatsApp.AppSecret),
			whatsappController.HandleWebhook)

		whatsapp.POST("/admin/send", whatsappController.SendMessage)
		whatsapp.GET("/admin/status", whatsappController.GetStatus)
	}

	sms := router.Group("/api/sms")
	{
		sms.POST("/webhook", smsController.HandleWebhook)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.APIResponse{
			Success:   false,
			Message:   "route not found: " + c.Request.URL.Path,
			Timestamp: time.Now(),
		})
	})
}
