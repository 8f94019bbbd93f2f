package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable cache key honoring prefix/strategy within
// generation gen. The concrete request path is used, not the route
// pattern, so /items/1 and /items/2 never share an entry.
func cacheKeyFrom(cfg config.CacheConfig, gen int64, c echo.Context) string {
	r := c.Request()
	path := r.URL.Path
	query := r.URL.RawQuery

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", path}
	case "method_route":
		parts = []string{"method", r.Method, "route", path}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", path, "q", query}
	default: // "route_query"
		parts = []string{"route", path, "q", query}
	}

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%d:%x", cfg.Prefix, gen, sum[:])
}

func genKey(prefix string) string {
	return prefix + ":gen"
}

// generation returns the current cache generation, 0 before the first write.
func generation(ctx context.Context, rdb *redis.Client, prefix string) (int64, error) {
	gen, err := rdb.Get(ctx, genKey(prefix)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches 200 responses of the configured methods in Redis,
// headers included, so a hit is byte-identical to the original response.
// Entries are keyed by a generation counter that every successful request
// with a non-cached method increments. A read that started before a write
// stores its body under the old generation, which no later read looks up,
// so reads never observe a state older than the last write. Superseded
// entries expire with their TTL.
// With caching disabled or no client the middleware is a pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Cacheable(c.Request().Method) {
				if err := next(c); err != nil {
					return err
				}
				if s := c.Response().Status; s >= 200 && s < 300 {
					if err := invalidate(context.WithoutCancel(c.Request().Context()), rdb, cfg.Prefix); err != nil {
						log.Warn().Err(err).Str("prefix", cfg.Prefix).Msg("cache: invalidation failed")
					}
				}
				return nil
			}

			ctx := c.Request().Context()
			gen, err := generation(ctx, rdb, cfg.Prefix)
			if err != nil {
				log.Warn().Err(err).Str("prefix", cfg.Prefix).Msg("cache: read generation failed")
				return next(c)
			}
			key := cacheKeyFrom(cfg, gen, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// truncated bodies are never stored
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := make(http.Header)
			for k, vals := range c.Response().Header() {
				if storedHeader(k) {
					hdr[k] = append([]string(nil), vals...)
				}
			}
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache: store failed")
			}
			return nil
		}
	}
}

// storedHeader reports whether a response header belongs to the cached
// representation. Per-request headers are set again on every hit.
func storedHeader(k string) bool {
	k = http.CanonicalHeaderKey(k)
	switch {
	case k == "X-Cache", k == echo.HeaderContentLength, k == echo.HeaderXRequestID, k == echo.HeaderRetryAfter:
		return false
	case strings.HasPrefix(k, "X-Ratelimit-"):
		return false
	}
	return true
}

// invalidate starts a new generation; entries of older ones are never read
// again.
func invalidate(ctx context.Context, rdb *redis.Client, prefix string) error {
	return rdb.Incr(ctx, genKey(prefix)).Err()
}
