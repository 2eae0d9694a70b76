package e

import "errors"

var (
	ErrStoreUnavailable = errors.New("durable store unavailable")
	ErrNoCachedResponse = errors.New("no cached response")
	ErrNoWidgetData     = errors.New("no widget data available")
	ErrNotFound         = errors.New("not found")
	ErrNotImplemented   = errors.New("not implemented")
)
