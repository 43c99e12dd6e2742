package handler

import (
	"vega_social_server/internal/service"
)

// Handlers aggregates the handler instances for the router.
type Handlers struct {
	Friend       *FriendHandler
	Presence     *PresenceHandler
	Notification *NotificationHandler
	Activity     *ActivityHandler
	Ws           *WsHandler
}

// NewHandlers creates every handler from the service aggregate.
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Friend:       NewFriendHandler(svc.Relationship),
		Presence:     NewPresenceHandler(svc.Presence),
		Notification: NewNotificationHandler(svc.Fanout),
		Activity:     NewActivityHandler(svc.Fanout, svc.Relationship),
		Ws:           NewWsHandler(svc.Gateway),
	}
}
