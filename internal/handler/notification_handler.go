package handler

import (
	"context"
	"os"
	"time"

	"dream-insight-be/internal/model"
	"dream-insight-be/internal/pkg/logger"
	"dream-insight-be/internal/pkg/mailer"
	internalWS "dream-insight-be/internal/websocket"
	"dream-insight-be/pkg/events"
	pkgnats "dream-insight-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NotificationHandler bridges pipeline events to connected clients: it owns
// the websocket upgrade endpoint and the NATS subscription that turns
// interpretation outcomes into pushed notifications.
type NotificationHandler struct {
	subscriber *pkgnats.Subscriber
	hub        *internalWS.Hub
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewNotificationHandler(sub *pkgnats.Subscriber, hub *internalWS.Hub, email mailer.IEmailService, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		subscriber: sub,
		hub:        hub,
		mailer:     email,
		logger:     log,
	}
}

// StartEventBridge subscribes to interpretation outcomes and pushes them to
// the requesting user's open connections.
func (h *NotificationHandler) StartEventBridge() error {
	if h.subscriber == nil {
		h.logger.Warn("NotificationHandler", "No NATS subscriber configured, event bridge disabled", nil)
		return nil
	}
	return h.subscriber.Subscribe("events."+events.TypeInterpretationCompleted, "notification-bridge", h.onInterpretationCompleted)
}

func (h *NotificationHandler) onInterpretationCompleted(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userIdStr, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		h.logger.Warn("NotificationHandler", "Event without valid user_id, dropping", map[string]interface{}{
			"event": event.EventType(),
		})
		return nil
	}

	interpretationId, _ := payload["interpretation_id"].(string)
	persona, _ := payload["persona"].(string)

	notification := model.Notification{
		ID:        uuid.New(),
		UserID:    userId,
		TypeCode:  events.TypeInterpretationCompleted,
		Title:     "Your dream interpretation is ready",
		Message:   "The " + persona + " reading of your dream has finished.",
		CreatedAt: time.Now(),
	}
	if id, err := uuid.Parse(interpretationId); err == nil {
		notification.EntityType = "interpretation"
		notification.EntityID = &id
	}

	h.hub.Send(userId, notification)

	if email, _ := payload["notify_email"].(string); email != "" && h.mailer != nil {
		topic, _ := payload["topic"].(string)
		if err := h.mailer.SendInterpretationReady(email, topic, persona, interpretationId); err != nil {
			h.logger.Warn("NotificationHandler", "Failed to send interpretation-ready mail", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}

// ServeWs upgrades the connection after validating the JWT from the query
// param or the Authorization header.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket endpoint.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
