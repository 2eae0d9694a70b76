package cache

import "strings"

// Bucket roles. Every bucket name is <prefix>-<role>-<generation> so one
// activation can purge every generation but its own without touching
// foreign buckets in the same storage backend.
const (
	RolePages   = "pages"
	RoleAssets  = "assets"
	RoleImages  = "images"
	RoleWidget  = "widget"
	RoleOffline = "offline"
)

type Names struct {
	Prefix     string
	Generation string
}

func (n Names) For(role string) string {
	return n.Prefix + "-" + role + "-" + n.Generation
}

// Current returns the one bucket name per role retained across an
// activation.
func (n Names) Current() []string {
	return []string{
		n.For(RolePages),
		n.For(RoleAssets),
		n.For(RoleImages),
		n.For(RoleWidget),
		n.For(RoleOffline),
	}
}

// IsStale reports whether name belongs to this worker's versioned prefix but
// not to the current generation.
func (n Names) IsStale(name string) bool {
	if !strings.HasPrefix(name, n.Prefix+"-") {
		return false
	}
	for _, current := range n.Current() {
		if name == current {
			return false
		}
	}
	return true
}
