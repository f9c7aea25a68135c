package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/database"
	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/services"
)

type ChatbotController struct {
	chatbotService *services.ChatbotService
	reportService  *services.ReportService
	store          database.ConversationStore
}

func NewChatbotController(
	chatbotService *services.ChatbotService,
	reportService *services.ReportService,
	store database.ConversationStore,
) *ChatbotController {
	return &ChatbotController{
		chatbotService: chatbotService,
		reportService:  reportService,
		store:          store,
	}
}

// HandleChat runs one message through the full pipeline and returns the
// composed reply.
func (cc *ChatbotController) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Channel == "" {
		req.Channel = models.ChannelWeb
	}

	response, err := cc.chatbotService.ProcessMessage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "message processed", response)
}

// HandleAssess runs a structured symptom assessment without the chat loop,
// for callers that already hold canonical symptom names.
func (cc *ChatbotController) HandleAssess(c *gin.Context) {
	var req models.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	result := cc.chatbotService.Assess(req)
	respond(c, http.StatusOK, "assessment complete", result)
}

// DownloadReport streams the PDF export of a completed assessment.
func (cc *ChatbotController) DownloadReport(c *gin.Context) {
	id := c.Param("id")

	result, err := cc.reportService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := cc.reportService.RenderPDF(result)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=assessment-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetAnalytics aggregates logged conversations for the dashboard. The days
// query parameter bounds the window, defaulting to the last week.
func (cc *ChatbotController) GetAnalytics(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		respondBadRequest(c, "days must be a positive integer")
		return
	}

	since := time.Now().AddDate(0, 0, -days)
	stats, err := cc.store.Stats(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "analytics computed", gin.H{
		"since": since,
		"days":  days,
		"stats": stats,
	})
}
