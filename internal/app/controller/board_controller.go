package controller

import (
	"net/http"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	ws "github.com/evoapps/confeitaria-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// BoardController serves the live order board socket
type BoardController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewBoardController(hub *ws.Hub, allowedOrigins []string) *BoardController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &BoardController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no origin
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Connect upgrades to a websocket subscribed to the user's store. Admins
// watch every store unless ?store_id= picks one.
// GET /ws/orders
// The token arrives as a query parameter and is never logged.
func (ctrl *BoardController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	storeID := middleware.GetUserStoreID(c)
	if role, _ := middleware.GetUserRole(c); role == model.RoleAdmin {
		picked, ok := optionalUint(c, "store_id")
		if !ok {
			return
		}
		storeID = ws.AllStores
		if picked != nil {
			storeID = *picked
		}
	} else if storeID == 0 {
		apperrors.BadRequest(c, apperrors.AuthzStoreRequired, "Usuário sem loja vinculada")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, userID, storeID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
	})
}
