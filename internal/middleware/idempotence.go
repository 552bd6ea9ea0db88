package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/pkg/redis"
	"github.com/schoolboard/core/internal/pkg/response"
)

const idempotenceKeyPrefix = "board-idempotence:"

// IdempotenceOptions controls the duplicate-write guard.
type IdempotenceOptions struct {
	Window    time.Duration
	SkipPaths []string
}

func normalizeIdempotenceOptions(opts *IdempotenceOptions) IdempotenceOptions {
	out := IdempotenceOptions{Window: 5 * time.Second}
	if opts != nil {
		if opts.Window > 0 {
			out.Window = opts.Window
		}
		out.SkipPaths = opts.SkipPaths
	}
	return out
}

// Idempotence rejects an identical write request repeated within the
// window. Identity is the hash of method, path, user and body.
func Idempotence(rdb *redis.Client, opts *IdempotenceOptions) gin.HandlerFunc {
	conf := normalizeIdempotenceOptions(opts)
	return func(c *gin.Context) {
		if rdb == nil || isReadMethod(c.Request.Method) {
			c.Next()
			return
		}
		for _, p := range conf.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		h := sha256.New()
		h.Write([]byte(c.Request.Method))
		h.Write([]byte(c.Request.URL.RequestURI()))
		h.Write([]byte(CurrentUserID(c)))
		h.Write(body)
		key := idempotenceKeyPrefix + hex.EncodeToString(h.Sum(nil))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ok, err := rdb.SetNX(ctx, key, 1, conf.Window)
		if err == nil && !ok {
			response.TooManyRequests(c, "duplicate request, try again shortly")
			return
		}
		c.Next()
	}
}

func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
