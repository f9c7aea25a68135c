package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/services"
)

type WhatsAppController struct {
	whatsappService *services.WhatsAppService
	chatbotService  *services.ChatbotService
}

func NewWhatsAppController(whatsappService *services.WhatsAppService, chatbotService *services.ChatbotService) *WhatsAppController {
	return &WhatsAppController{
		whatsappService: whatsappService,
		chatbotService:  chatbotService,
	}
}

// VerifyWebhook answers Meta's hub.challenge verification request.
func (wc *WhatsAppController) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if wc.whatsappService.VerifyWebhookToken(mode, token) {
		c.String(http.StatusOK, challenge)
		return
	}

	respond(c, http.StatusForbidden, "webhook verification failed", nil)
}

// HandleWebhook accepts inbound WhatsApp traffic. It acknowledges
// immediately and processes messages in the background, otherwise Meta
// retries the delivery on slow turns.
func (wc *WhatsAppController) HandleWebhook(c *gin.Context) {
	var webhookData models.WhatsAppWebhookData
	if err := c.ShouldBindJSON(&webhookData); err != nil {
		respondBadRequest(c, "invalid webhook payload")
		return
	}

	// The request context dies when this handler returns, so the
	// background work gets its own.
	go wc.processWebhookData(context.Background(), webhookData)

	respond(c, http.StatusOK, "received", nil)
}

func (wc *WhatsAppController) processWebhookData(ctx context.Context, data models.WhatsAppWebhookData) {
	for _, entry := range data.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, message := range change.Value.Messages {
				wc.handleIncomingMessage(ctx, message)
			}
			for _, status := range change.Value.Statuses {
				wc.handleStatusUpdate(status)
			}
		}
	}
}

// messageText pulls the user-visible text out of the supported message
// types. Button and list replies carry their title as the text, which is
// exactly the suggestion chip the user tapped.
func messageText(message models.WhatsAppMessage) (string, bool) {
	switch message.Type {
	case "text":
		if message.Text != nil {
			return message.Text.Body, true
		}
	case "interactive":
		if message.Interactive != nil {
			if message.Interactive.ButtonReply != nil {
				return message.Interactive.ButtonReply.Title, true
			}
			if message.Interactive.ListReply != nil {
				return message.Interactive.ListReply.Title, true
			}
		}
	case "button":
		if message.Button != nil {
			return message.Button.Title, true
		}
	}
	return "", false
}

func (wc *WhatsAppController) handleIncomingMessage(ctx context.Context, message models.WhatsAppMessage) {
	wc.whatsappService.RecordInbound()

	text, ok := messageText(message)
	if !ok {
		if err := wc.whatsappService.SendTextMessage(ctx, message.From,
			"Sorry, I can only read text messages right now. Please type your question."); err != nil {
			log.Printf("WhatsApp unsupported-type reply to %s failed: %v", message.From, err)
		}
		return
	}

	if err := wc.whatsappService.MarkMessageAsRead(ctx, message.ID); err != nil {
		log.Printf("WhatsApp mark-as-read failed: %v", err)
	}

	req := models.ChatRequest{
		Message:   text,
		SessionID: "whatsapp_" + message.From,
		UserID:    message.From,
		Channel:   models.ChannelWhatsApp,
	}

	response, err := wc.chatbotService.ProcessMessage(ctx, req)
	if err != nil {
		log.Printf("WhatsApp turn for %s failed: %v", message.From, err)
		if err := wc.whatsappService.SendTextMessage(ctx, message.From,
			"Sorry, something went wrong. Please try again in a moment."); err != nil {
			log.Printf("WhatsApp error reply to %s failed: %v", message.From, err)
		}
		return
	}

	if err := wc.whatsappService.SendReply(ctx, message.From, response.Response, response.Suggestions); err != nil {
		log.Printf("WhatsApp reply to %s failed: %v", message.From, err)
	}
}

// handleStatusUpdate logs delivery failures reported by Meta.
func (wc *WhatsAppController) handleStatusUpdate(status models.WhatsAppStatus) {
	for _, e := range status.Errors {
		log.Printf("WhatsApp delivery error for %s: %d %s: %s", status.RecipientID, e.Code, e.Title, e.Message)
	}
}

// SendMessage pushes a text message to one number, for operator use.
func (wc *WhatsAppController) SendMessage(c *gin.Context) {
	var req struct {
		To      string `json:"to" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	to := wc.whatsappService.CleanPhoneNumber(req.To)
	if err := wc.whatsappService.SendTextMessage(c.Request.Context(), to, req.Message); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "message sent", gin.H{"to": to})
}

// GetStatus reports channel health counters.
func (wc *WhatsAppController) GetStatus(c *gin.Context) {
	respond(c, http.StatusOK, "whatsapp status", wc.whatsappService.Status())
}
