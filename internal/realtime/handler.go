package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/config"
	teamRepository "github.com/taskhive/taskhive/internal/team/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades authenticated HTTP requests into broadcaster
// connections.
type Handler struct {
	hub      *Hub
	sessions *sessionStore
	verifier auth.TokenVerifier
	teamRepo teamRepository.Repository
	cfg      config.RealtimeConfig
	logger   *zap.SugaredLogger
}

// NewHandler creates a websocket handler with a fresh hub and session
// store.
func NewHandler(
	verifier auth.TokenVerifier,
	teamRepo teamRepository.Repository,
	cfg config.RealtimeConfig,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		hub:      NewHub(logger),
		sessions: newSessionStore(cfg.SessionGrace),
		verifier: verifier,
		teamRepo: teamRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

// bearerToken extracts the credential from the Authorization header or,
// for browser websocket clients that cannot set headers, the token
// query parameter.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// ServeWS handles GET /ws. The token must verify before the upgrade;
// after it, the connection is subscribed to the user's current teams,
// or to its previous rooms when resuming inside the grace window.
func (h *Handler) ServeWS(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	identity, err := h.verifier.Verify(token)
	if err != nil {
		h.logger.Warnw("websocket authentication failed", "error", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	connID := uuid.NewString()
	var rooms []string
	resumed := false
	if resumeID := c.Query("resume"); resumeID != "" {
		if parked, ok := h.sessions.Resume(resumeID, identity.UserID, time.Now()); ok {
			connID = resumeID
			rooms = parked
			resumed = true
		}
	}
	if !resumed {
		teams, err := h.teamRepo.ListByMember(c.Request.Context(), identity.UserID)
		if err != nil {
			h.logger.Errorw("error loading memberships for websocket",
				"user_id", identity.UserID, "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		for _, team := range teams {
			rooms = append(rooms, team.ID)
		}
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	conn := &connection{
		id:       connID,
		userID:   identity.UserID,
		username: identity.Email,
		ws:       ws,
		send:     make(chan []byte, h.cfg.SendBuffer),
		rooms:    make(map[string]struct{}),
		hub:      h.hub,
		sessions: h.sessions,
		resolver: h.teamRepo,
		cfg:      h.cfg,
		logger:   h.logger,
	}
	for _, teamID := range rooms {
		conn.join(teamID)
	}

	h.logger.Infow("websocket connected",
		"connection_id", connID, "user_id", identity.UserID, "rooms", len(rooms), "resumed", resumed)

	go conn.writePump()
	go conn.readPump()
}
