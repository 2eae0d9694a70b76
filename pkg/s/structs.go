package s

import (
	"encoding/json"
	"time"
)

// PendingAction is a side-effecting request captured while the network was
// unavailable. It sits in the durable store until one replay attempt returns
// a successful HTTP status.
type PendingAction struct {
	ID      int64             `json:"id"`
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"` // 2021-11-02T23:02:58Z
}

// StagedFile is a file submitted through the order-intake route, held until
// the redirected page collects it.
type StagedFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"type"`
	Size        int64  `json:"size"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
}

// CachedResponse is the envelope stored in a cache bucket for one URL.
type CachedResponse struct {
	Status   int               `json:"status"`
	Headers  map[string]string `json:"headers"`
	Body     []byte            `json:"body"`
	StoredAt time.Time         `json:"storedAt"`
}

// ObjectInfo describes one stored bucket entry, used for eviction and
// generation cleanup.
type ObjectInfo struct {
	Key      string
	Size     int64
	Modified time.Time
}

type VersionInfo struct {
	Version    string `json:"version"`
	Generation string `json:"generation"`
	BuiltAt    string `json:"builtAt,omitempty"`
}

type DrainResult struct {
	Attempted int `json:"attempted"`
	Replayed  int `json:"replayed"`
	Failed    int `json:"failed"`
}

// Client message types, shared between the websocket bridge and tabs.
const (
	MsgSaveOfflineAction   = "SAVE_OFFLINE_ACTION"
	MsgSkipWaiting         = "SKIP_WAITING"
	MsgGetVersion          = "GET_VERSION"
	MsgRequestWidgetUpdate = "REQUEST_WIDGET_UPDATE"

	MsgActionSaved       = "ACTION_SAVED"
	MsgVersionInfo       = "VERSION_INFO"
	MsgWidgetUpdated     = "WIDGET_UPDATED"
	MsgWidgetDataUpdated = "WIDGET_DATA_UPDATED"
	MsgNotification      = "NOTIFICATION"
)

// ClientMessage is what a tab sends over the websocket.
type ClientMessage struct {
	Type   string         `json:"type"`
	Action *PendingAction `json:"action,omitempty"`
}

// WorkerMessage is what the worker sends back, either as a direct reply or a
// broadcast. Fields are populated per message type.
type WorkerMessage struct {
	Type      string          `json:"type"`
	Success   *bool           `json:"success,omitempty"`
	ActionID  int64           `json:"actionId,omitempty"`
	Version   *VersionInfo    `json:"version,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	FromCache bool            `json:"fromCache,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Title     string          `json:"title,omitempty"`
	Body      string          `json:"body,omitempty"`
	URL       string          `json:"url,omitempty"`
}

// PushPayload is the body of an incoming push delivery.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

func Bool(v bool) *bool { return &v }
