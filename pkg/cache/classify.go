package cache

// Strategy is the caching behaviour applied to one intercepted request.
type Strategy int

const (
	PassThrough Strategy = iota
	NetworkFirst
	StaleWhileRevalidate
	CacheFirst
)

func (s Strategy) String() string {
	switch s {
	case NetworkFirst:
		return "network-first"
	case StaleWhileRevalidate:
		return "stale-while-revalidate"
	case CacheFirst:
		return "cache-first"
	default:
		return "pass-through"
	}
}

// Classify picks exactly one strategy from the request's fetch mode and
// destination. The URL plays no part; first match wins.
func Classify(mode, destination string) Strategy {
	if mode == "navigate" {
		return NetworkFirst
	}

	switch destination {
	case "style", "script", "worker":
		return StaleWhileRevalidate
	case "image":
		return CacheFirst
	}

	return PassThrough
}
