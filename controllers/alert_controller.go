package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/services"
)

type AlertController struct {
	alertService *services.AlertService
}

func NewAlertController(alertService *services.AlertService) *AlertController {
	return &AlertController{alertService: alertService}
}

// GetAlerts lists active outbreak alerts, newest first. The region query
// parameter filters to one region; "all" or no region returns everything.
func (ac *AlertController) GetAlerts(c *gin.Context) {
	region := c.Query("region")
	alerts := ac.alertService.ActiveByRegion(region)

	respond(c, http.StatusOK, "active alerts", gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// PublishAlert registers a new outbreak alert and fans it out to matching
// subscribers in the background.
func (ac *AlertController) PublishAlert(c *gin.Context) {
	var alert models.OutbreakAlert
	if err := c.ShouldBindJSON(&alert); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	published, err := ac.alertService.Publish(alert)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "alert published", published)
}

// Subscribe registers a phone number for outbreak alert notifications.
func (ac *AlertController) Subscribe(c *gin.Context) {
	var sub models.AlertSubscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	created, err := ac.alertService.Subscribe(sub)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "subscribed to alerts", created)
}

// Unsubscribe deactivates an alert subscription. The subscription is kept
// so a later START or re-subscribe reactivates it.
func (ac *AlertController) Unsubscribe(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	if !ac.alertService.Unsubscribe(req.PhoneNumber) {
		respondError(c, models.NewNotFoundError("subscription", req.PhoneNumber))
		return
	}

	respond(c, http.StatusOK, "unsubscribed from alerts", nil)
}
