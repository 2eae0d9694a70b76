package cache

import (
	"context"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gazhub/offline-worker/pkg/metrics"
	"github.com/gazhub/offline-worker/pkg/s"
)

// Router intercepts storefront fetches and applies one caching strategy per
// request class. Network failures never escape a strategy; they degrade to
// cache or fallback.
type Router struct {
	Client  *http.Client
	Origin  *url.URL
	Pages   *Bucket
	Assets  *Bucket
	Images  *Bucket
	Offline *Bucket

	// OfflinePage is the URL key of the pre-cached fallback document.
	OfflinePage string

	proxy *httputil.ReverseProxy
}

func NewRouter(client *http.Client, origin *url.URL, pages, assets, images, offline *Bucket, offlinePage string) *Router {
	return &Router{
		Client:      client,
		Origin:      origin,
		Pages:       pages,
		Assets:      assets,
		Images:      images,
		Offline:     offline,
		OfflinePage: offlinePage,
		proxy:       httputil.NewSingleHostReverseProxy(origin),
	}
}

// Handle is the catch-all fetch handler. Only GETs are cacheable; anything
// else is proxied untouched.
func (r *Router) Handle(c *gin.Context) {
	strategy := Classify(c.GetHeader("Sec-Fetch-Mode"), c.GetHeader("Sec-Fetch-Dest"))
	if c.Request.Method != http.MethodGet {
		strategy = PassThrough
	}

	switch strategy {
	case NetworkFirst:
		r.networkFirst(c)
	case StaleWhileRevalidate:
		r.staleWhileRevalidate(c)
	case CacheFirst:
		r.cacheFirst(c)
	default:
		r.proxy.ServeHTTP(c.Writer, c.Request)
	}
}

func (r *Router) fetch(c *gin.Context) (s.CachedResponse, error) {
	header := make(http.Header)
	for _, name := range []string{"Accept", "Accept-Language", "User-Agent", "Cookie"} {
		if value := c.GetHeader(name); value != "" {
			header.Set(name, value)
		}
	}
	return r.fetchPath(c.Request.Context(), c.Request.URL.Path, c.Request.URL.RawQuery, header)
}

func (r *Router) fetchPath(ctx context.Context, path, rawQuery string, header http.Header) (s.CachedResponse, error) {
	outURL := *r.Origin
	outURL.Path = path
	outURL.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, outURL.String(), nil)
	if err != nil {
		return s.CachedResponse{}, err
	}
	req.Header = header

	resp, err := r.Client.Do(req)
	if err != nil {
		return s.CachedResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return s.CachedResponse{}, err
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	return s.CachedResponse{
		Status:   resp.StatusCode,
		Headers:  headers,
		Body:     body,
		StoredAt: time.Now().UTC(),
	}, nil
}

func serve(c *gin.Context, resp s.CachedResponse, fromCache bool) {
	for name, value := range resp.Headers {
		c.Header(name, value)
	}
	if fromCache {
		c.Header("X-Cache", "HIT")
	}
	contentType := resp.Headers["Content-Type"]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(resp.Status, contentType, resp.Body)
}

func serveUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "network error"})
}

func (r *Router) networkFirst(c *gin.Context) {
	cacheURL := c.Request.URL.RequestURI()

	resp, err := r.fetch(c)
	if err == nil {
		if resp.Status < http.StatusBadRequest {
			if err2 := r.Pages.Put(cacheURL, resp); err2 != nil {
				log.Warn().Err(err2).Str("url", cacheURL).Msg("Failed to cache page")
			}
		}
		metrics.CacheRequest(NetworkFirst.String(), "network")
		serve(c, resp, false)
		return
	}

	log.Debug().Err(err).Str("url", cacheURL).Msg("Network failed, trying page cache")

	cached, err := r.Pages.Get(cacheURL)
	if err == nil {
		metrics.CacheRequest(NetworkFirst.String(), "hit")
		serve(c, cached, true)
		return
	}

	// Document navigation with no cached copy gets the offline page
	if c.GetHeader("Sec-Fetch-Dest") == "document" || c.GetHeader("Sec-Fetch-Dest") == "" {
		if fallback, err2 := r.Offline.Get(r.OfflinePage); err2 == nil {
			metrics.CacheRequest(NetworkFirst.String(), "fallback")
			serve(c, fallback, true)
			return
		}
	}

	metrics.CacheRequest(NetworkFirst.String(), "miss")
	serveUnavailable(c)
}

func (r *Router) staleWhileRevalidate(c *gin.Context) {
	cacheURL := c.Request.URL.RequestURI()

	cached, err := r.Assets.Get(cacheURL)
	if err == nil {
		// Refresh in the background, the response is not blocked on it.
		// The request context dies with the handler so the refresh gets
		// its own.
		path, rawQuery := c.Request.URL.Path, c.Request.URL.RawQuery
		header := c.Request.Header.Clone()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			resp, err2 := r.fetchPath(ctx, path, rawQuery, header)
			if err2 != nil {
				log.Debug().Err(err2).Str("url", cacheURL).Msg("Asset revalidation failed")
				return
			}
			if resp.Status < http.StatusBadRequest {
				if err2 = r.Assets.Put(cacheURL, resp); err2 != nil {
					log.Warn().Err(err2).Str("url", cacheURL).Msg("Failed to refresh asset")
				}
			}
		}()

		metrics.CacheRequest(StaleWhileRevalidate.String(), "hit")
		serve(c, cached, true)
		return
	}

	resp, err := r.fetch(c)
	if err != nil {
		metrics.CacheRequest(StaleWhileRevalidate.String(), "miss")
		serveUnavailable(c)
		return
	}

	if resp.Status < http.StatusBadRequest {
		if err = r.Assets.Put(cacheURL, resp); err != nil {
			log.Warn().Err(err).Str("url", cacheURL).Msg("Failed to cache asset")
		}
	}
	metrics.CacheRequest(StaleWhileRevalidate.String(), "network")
	serve(c, resp, false)
}

func (r *Router) cacheFirst(c *gin.Context) {
	cacheURL := c.Request.URL.RequestURI()

	cached, err := r.Images.Get(cacheURL)
	if err == nil {
		metrics.CacheRequest(CacheFirst.String(), "hit")
		serve(c, cached, true)
		return
	}

	resp, err := r.fetch(c)
	if err != nil {
		metrics.CacheRequest(CacheFirst.String(), "miss")
		serveUnavailable(c)
		return
	}

	if resp.Status < http.StatusBadRequest {
		if err = r.Images.Put(cacheURL, resp); err != nil {
			log.Warn().Err(err).Str("url", cacheURL).Msg("Failed to cache image")
		}
	}
	metrics.CacheRequest(CacheFirst.String(), "network")
	serve(c, resp, false)
}
