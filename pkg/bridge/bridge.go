package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/gazhub/offline-worker/pkg/database"
	"github.com/gazhub/offline-worker/pkg/metrics"
	"github.com/gazhub/offline-worker/pkg/s"
)

// WidgetUpdater is the explicit-request path of the widget refresher.
type WidgetUpdater interface {
	RequestUpdate(ctx context.Context) (data json.RawMessage, fromCache bool, err error)
}

// Activator is the lifecycle controller as seen from the message bridge.
type Activator interface {
	Activate(ctx context.Context) error
	Version() s.VersionInfo
}

type Bridge struct {
	Hub       *Hub
	Database  database.Backend
	Widget    WidgetUpdater
	Lifecycle Activator
}

// ServeWS upgrades a tab connection and runs its message loop until the tab
// goes away.
func (b *Bridge) ServeWS(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same-origin enforcement is the proxy's job
	})
	if err != nil {
		log.Warn().Err(err).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "worker going away")

	b.Hub.add(conn)
	defer b.Hub.remove(conn)

	ctx := c.Request.Context()
	for {
		var msg s.ClientMessage
		if err = wsjson.Read(ctx, conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			log.Debug().Err(err).Msg("Client connection read failed")
			return
		}

		if reply, ok := b.dispatch(ctx, msg); ok {
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			if err = wsjson.Write(writeCtx, conn, reply); err != nil {
				log.Debug().Err(err).Str("type", reply.Type).Msg("Failed to reply to client")
			}
			cancel()
		}
	}
}

// dispatch routes one client message by its type discriminator. The bool
// reports whether a direct reply should be sent.
func (b *Bridge) dispatch(ctx context.Context, msg s.ClientMessage) (s.WorkerMessage, bool) {
	switch msg.Type {
	case s.MsgSaveOfflineAction:
		return b.saveAction(msg.Action), true

	case s.MsgSkipWaiting:
		if err := b.Lifecycle.Activate(ctx); err != nil {
			log.Error().Err(err).Msg("Immediate activation failed")
		}
		return s.WorkerMessage{}, false

	case s.MsgGetVersion:
		version := b.Lifecycle.Version()
		return s.WorkerMessage{Type: s.MsgVersionInfo, Version: &version}, true

	case s.MsgRequestWidgetUpdate:
		return b.widgetUpdate(ctx), true

	default:
		log.Warn().Str("type", msg.Type).Msg("Unknown client message type")
		return s.WorkerMessage{}, false
	}
}

func (b *Bridge) saveAction(action *s.PendingAction) s.WorkerMessage {
	if action == nil || action.URL == "" {
		return s.WorkerMessage{Type: s.MsgActionSaved, Success: s.Bool(false)}
	}

	actionID, err := b.Database.EnqueueAction(*action)
	if err != nil {
		log.Error().Err(err).Str("url", action.URL).Msg("Failed to queue offline action")
		return s.WorkerMessage{Type: s.MsgActionSaved, Success: s.Bool(false)}
	}

	metrics.ActionQueued()
	return s.WorkerMessage{Type: s.MsgActionSaved, Success: s.Bool(true), ActionID: actionID}
}

func (b *Bridge) widgetUpdate(ctx context.Context) s.WorkerMessage {
	data, fromCache, err := b.Widget.RequestUpdate(ctx)
	if err != nil {
		// Neither network nor cache had data; an explicit failure reply
		// beats leaving the tab waiting forever
		log.Warn().Err(err).Msg("Widget update request failed")
		return s.WorkerMessage{Type: s.MsgWidgetDataUpdated, Success: s.Bool(false)}
	}

	return s.WorkerMessage{
		Type:      s.MsgWidgetDataUpdated,
		Data:      data,
		FromCache: fromCache,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// HandlePush renders an incoming push delivery to every open tab. Malformed
// payloads degrade to the default notification.
func (b *Bridge) HandlePush(c *gin.Context, defaultTitle, defaultBody string) {
	var payload s.PushPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Debug().Err(err).Msg("Push payload is not JSON, using defaults")
	}
	if payload.Title == "" {
		payload.Title = defaultTitle
	}
	if payload.Body == "" {
		payload.Body = defaultBody
	}
	if payload.URL == "" {
		payload.URL = "/"
	}

	b.Hub.Broadcast(s.WorkerMessage{
		Type:  s.MsgNotification,
		Title: payload.Title,
		Body:  payload.Body,
		URL:   payload.URL,
	})

	c.JSON(http.StatusOK, gin.H{"delivered": b.Hub.ClientCount()})
}
