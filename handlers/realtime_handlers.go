package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fadhlanhapp/groupcart-backend/models"
	"github.com/fadhlanhapp/groupcart-backend/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy lives in the HTTP middleware; the socket accepts
		// any origin that got past it
		return true
	},
}

// Subscribe upgrades the request to a WebSocket and registers the member
// on the group's channel. Incoming chat envelopes are rebroadcast to the
// rest of the group; pings are answered on the same socket. The
// connection is unregistered and closed when the read loop ends.
func (a *API) Subscribe(c *gin.Context) {
	member := utils.NormalizeName(c.Query("member"))
	if member == "" {
		utils.HandleError(c, utils.NewBadRequestError("member is required"))
		return
	}

	group, err := a.groupService.GetGroupByCode(c.Param("code"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := a.groupService.RequireMember(group, member); err != nil {
		utils.HandleError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		return
	}

	// WriteJSON is not safe for concurrent use; broadcasts and ping
	// replies can race, so serialize writes per socket
	var writeMu sync.Mutex
	send := func(event models.Event) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(event)
	}

	handle, replaced := a.registry.CreateConnection(group.ID, member, send, func() { conn.Close() })
	if replaced != nil {
		// the member reconnected; drop the old socket so its read loop ends
		replaced.CloseTransport()
	}
	a.registry.Broadcast(group.ID, models.NewEvent(models.EventMemberUpdate, gin.H{
		"memberId": member,
		"online":   true,
	}), member)

	for {
		var event models.Event
		if err := conn.ReadJSON(&event); err != nil {
			break
		}

		switch event.Type {
		case models.EventPing:
			a.registry.SendToUser(group.ID, member, models.NewEvent(models.EventPing, nil))
		case models.EventMessage:
			a.registry.Broadcast(group.ID, models.NewEvent(models.EventMessage, event.Data), member)
		}
	}

	// a handle that was replaced by a reconnect must not unregister the
	// live connection, so removal is guarded by identity
	a.registry.RemoveIfCurrent(handle)
	conn.Close()
}
