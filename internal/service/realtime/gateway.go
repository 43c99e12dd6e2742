package realtime

import (
	"net/http"

	"vega_social_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  constants.WS_READ_BUFFER,
	WriteBufferSize: constants.WS_WRITE_BUFFER,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway upgrades HTTP requests to websocket connections and plugs them
// into the registry.
type Gateway struct {
	registry *Registry
}

// NewGateway creates a Gateway over the registry.
func NewGateway(registry *Registry) *Gateway {
	return &Gateway{registry: registry}
}

// HandleConnection upgrades the request and registers the connection for
// the authenticated user. The connection lives until the peer closes or a
// read fails; inbound frames only refresh activity, all state mutations go
// through the HTTP API.
func (g *Gateway) HandleConnection(c *gin.Context, userId string) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := NewConn(userId, uuid.NewString(), ws)
	g.registry.Register(conn)

	go conn.WritePump()
	go g.readPump(conn, ws)
}

func (g *Gateway) readPump(conn *Conn, ws *websocket.Conn) {
	defer g.registry.Unregister(conn.ConnId)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			zap.L().Debug("websocket read ended",
				zap.String("connId", conn.ConnId), zap.Error(err))
			return
		}
		conn.Touch()
	}
}
