package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The web widget is served from a different origin than the API, so
	// origin checks are left to the CORS middleware in front.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketController struct {
	chatbotService *services.ChatbotService
}

func NewWebSocketController(chatbotService *services.ChatbotService) *WebSocketController {
	return &WebSocketController{
		chatbotService: chatbotService,
	}
}

// HandleWebSocket runs a persistent chat over one connection: each frame
// carries a ChatRequest in and a ChatResponse out, through the same
// pipeline as POST /api/v1/chat.
func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := c.Query("session_id")

	for {
		var req models.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("WebSocket read failed: %v", err)
			}
			return
		}

		if req.SessionID == "" {
			req.SessionID = sessionID
		}
		req.Channel = models.ChannelWeb

		response, err := wc.chatbotService.ProcessMessage(c.Request.Context(), req)
		if err != nil {
			if writeErr := conn.WriteJSON(models.APIResponse{
				Success:   false,
				Message:   err.Error(),
				Timestamp: time.Now(),
			}); writeErr != nil {
				return
			}
			continue
		}

		// Carry the session the pipeline minted into the next frame so
		// the conversation continues even if the client omits it.
		sessionID = response.SessionID

		if err := conn.WriteJSON(response); err != nil {
			return
		}
	}
}
