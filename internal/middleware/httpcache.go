package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/pkg/redis"
)

const apiCachePrefix = "board-api-cache:"

// HTTPCacheOptions controls the shared GET response cache.
type HTTPCacheOptions struct {
	TTL       time.Duration
	SkipPaths []string
}

func normalizeHTTPCacheOptions(opts *HTTPCacheOptions) HTTPCacheOptions {
	out := HTTPCacheOptions{TTL: 10 * time.Second}
	if opts != nil {
		if opts.TTL > 0 {
			out.TTL = opts.TTL
		}
		out.SkipPaths = opts.SkipPaths
	}
	return out
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cacheBodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// HTTPCache caches successful anonymous GET responses in Redis. Writes
// from the dashboard invalidate the cache via PurgeHTTPCache.
func HTTPCache(rdb *redis.Client, opts *HTTPCacheOptions) gin.HandlerFunc {
	conf := normalizeHTTPCacheOptions(opts)
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet || IsAuthenticated(c) {
			c.Next()
			return
		}
		if shouldSkipCachePath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		key := apiCachePrefix + c.Request.URL.RequestURI()
		if cached, err := rdb.Get(ctx, key); err == nil && cached != "" {
			if payload, err := base64.StdEncoding.DecodeString(cached); err == nil {
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
				c.Abort()
				return
			}
		}

		writer := &cacheBodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			encoded := base64.StdEncoding.EncodeToString(writer.body.Bytes())
			_ = rdb.Set(ctx, key, encoded, conf.TTL)
		}
	}
}

func shouldSkipCachePath(path string, skip []string) bool {
	for _, p := range skip {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// PurgeHTTPCache drops every cached response whose URI starts with
// pathPrefix, or the whole cache when pathPrefix is empty.
func PurgeHTTPCache(ctx context.Context, rdb *redis.Client, pathPrefix string) error {
	if rdb == nil {
		return nil
	}
	return rdb.DelByPrefix(ctx, fmt.Sprintf("%s%s", apiCachePrefix, pathPrefix))
}
