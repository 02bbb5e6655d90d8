package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/plantora/plant-shop-backend/internal/config"
)

// bodyRecorder captures the response body while forwarding it to the
// client, up to a configured size limit.  Responses larger than the limit
// are served normally but never cached.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	size     int64
	limit    int64
	overflow bool
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.status = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	br.size += int64(len(b))
	if br.size > br.limit {
		br.overflow = true
	} else {
		br.buf.Write(b)
	}
	return br.ResponseWriter.Write(b)
}

// ResponseCache returns a middleware caching successful JSON GET responses
// in Redis under a key derived from route and query.  It fronts the public
// orders report, which is read far more often than orders are placed.
// Cache misses and Redis errors fall through to the handler; only 200
// responses within the size limit are stored.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				return c.JSONBlob(http.StatusOK, body)
			}

			rec := &bodyRecorder{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				return err
			}
			if rec.status == http.StatusOK && !rec.overflow && rec.buf.Len() > 0 {
				// Best effort; a failed SET only costs the next request a miss.
				_ = rdb.Set(ctx, key, rec.buf.Bytes(), ttlOrDefault(cfg.TTL)).Err()
			}
			return nil
		}
	}
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 30 * time.Second
	}
	return ttl
}

func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}
