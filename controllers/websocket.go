package controllers

import (
	"log"
	"net/http"
	"oficinadoaluno_go/config"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
)

type WebSocketController struct {
	hub *websocket.Hub
}

type wsClaims struct {
	CollaboratorID uint     `json:"collaborator_id"`
	Login          string   `json:"login"`
	Roles          []string `json:"roles"`
	jwt.RegisteredClaims
}

// defaultHub lets every controller push change events over the same hub.
var defaultHub *websocket.Hub

// SetHub wires the shared WebSocket hub into the controllers package.
func SetHub(h *websocket.Hub) {
	defaultHub = h
}

// broadcastChange tells connected screens an entity changed. No-op when the
// hub is not wired (tests).
func broadcastChange(resource, action string, id uint) {
	if defaultHub != nil {
		defaultHub.BroadcastChange(resource, action, id)
	}
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{
		hub: hub,
	}
}

// validateJWT validates a JWT token and returns the collaborator
func (wsc *WebSocketController) validateJWT(tokenString string) (*models.Collaborator, error) {
	token, err := jwt.ParseWithClaims(tokenString, &wsClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*wsClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}

	var collab models.Collaborator
	if err := database.DB.Where("id = ? AND active = ?", claims.CollaboratorID, true).First(&collab).Error; err != nil {
		return nil, err
	}

	return &collab, nil
}

// HandleWebSocket upgrades HTTP connection to WebSocket for notifications using Fiber middleware
func (wsc *WebSocketController) HandleWebSocket(c *fiber.Ctx) error {
	// This should not be called directly - use the websocket middleware route instead
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Use the WebSocket endpoint: ws://<host>/ws?token=YOUR_JWT",
	})
}

// WebSocketHandler returns a Fiber WebSocket handler that validates JWT and connects to hub
func (wsc *WebSocketController) WebSocketHandler() fiber.Handler {
	return fiberws.New(func(c *fiberws.Conn) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("WebSocket handler panic: %v", r)
			}
		}()

		// Get token from query parameter
		token := c.Query("token")
		if token == "" {
			log.Println("WebSocket connection rejected: missing token")
			c.WriteMessage(fiberws.CloseMessage, []byte("Missing token"))
			c.Close()
			return
		}

		collab, err := wsc.validateJWT(token)
		if err != nil {
			log.Printf("WebSocket connection rejected: invalid token: %v", err)
			c.WriteMessage(fiberws.CloseMessage, []byte("Invalid token"))
			c.Close()
			return
		}

		log.Printf("WebSocket connection established for collaborator ID: %d (%s)", collab.ID, collab.Login)

		wsc.hub.ServeFiberWS(c, collab.ID)
	})
}

// HandleWebSocketHTTP handles WebSocket upgrade using standard HTTP handler (legacy)
func (wsc *WebSocketController) HandleWebSocketHTTP(w http.ResponseWriter, r *http.Request, collaboratorID uint) {
	wsc.hub.ServeWS(w, r, collaboratorID)
}

// GetWebSocketStats returns WebSocket connection statistics (admin only)
func (wsc *WebSocketController) GetWebSocketStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected_clients": wsc.hub.GetClientCount(),
		"status":            "active",
	})
}
