package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/services"
)

const (
	smsStopReply  = "You will no longer receive health alerts. Reply START to subscribe again."
	smsStartReply = "You are subscribed to health alerts for your region. Reply STOP to opt out."
	smsHelpReply  = "Send your symptoms for a health assessment, e.g. \"fever and cough since 2 days\". " +
		"Reply START to receive outbreak alerts, STOP to stop them."
	smsErrorReply = "Sorry, something went wrong. Please try again in a moment."
)

type SMSController struct {
	chatbotService *services.ChatbotService
	alertService   *services.AlertService
}

func NewSMSController(chatbotService *services.ChatbotService, alertService *services.AlertService) *SMSController {
	return &SMSController{
		chatbotService: chatbotService,
		alertService:   alertService,
	}
}

// HandleWebhook processes one inbound Twilio SMS and answers with a TwiML
// document. Twilio sends the reply text back to the user, so this endpoint
// stays synchronous unlike the WhatsApp webhook.
func (sc *SMSController) HandleWebhook(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "malformed form body")
		return
	}

	incoming := services.ParseIncoming(c.Request.PostForm)
	if incoming.From == "" || incoming.Body == "" {
		c.String(http.StatusBadRequest, "missing From or Body")
		return
	}

	reply := sc.replyFor(c.Request.Context(), incoming)

	twiml, err := services.TwiML(reply)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to encode reply")
		return
	}

	c.Data(http.StatusOK, "text/xml; charset=utf-8", twiml)
}

func (sc *SMSController) replyFor(ctx context.Context, incoming models.IncomingSMS) string {
	if cmd, ok := services.ParseSMSCommand(incoming.Body); ok {
		return sc.handleCommand(cmd, incoming.From)
	}

	req := models.ChatRequest{
		Message:   incoming.Body,
		SessionID: "sms_" + incoming.From,
		UserID:    incoming.From,
		Channel:   models.ChannelSMS,
	}

	response, err := sc.chatbotService.ProcessMessage(ctx, req)
	if err != nil {
		return smsErrorReply
	}
	return response.Response
}

// handleCommand applies the carrier keyword conventions: STOP always
// deactivates, START reactivates or creates an SMS subscription.
func (sc *SMSController) handleCommand(cmd, from string) string {
	switch cmd {
	case services.SMSCommandStop:
		sc.alertService.Unsubscribe(from)
		return smsStopReply
	case services.SMSCommandStart:
		if !sc.alertService.Resubscribe(from) {
			if _, err := sc.alertService.Subscribe(models.AlertSubscription{
				PhoneNumber: from,
				Channel:     models.ChannelSMS,
			}); err != nil {
				return smsErrorReply
			}
		}
		return smsStartReply
	default:
		return smsHelpReply
	}
}
