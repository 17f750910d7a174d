package middleware

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/lehoang/visit-registration/internal/config"
)

// ConfigCache caches the body of the public form-config endpoint in
// Redis.  The form configuration changes rarely and is read on every
// page load, so a short TTL plus explicit invalidation on save keeps
// it fresh.  Capacity counts are never cached: admission checks must
// always see the live store.
type ConfigCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
}

// NewConfigCache returns a cache helper.  A nil Redis client disables
// caching entirely.
func NewConfigCache(cfg config.CacheConfig, rdb *redis.Client) *ConfigCache {
    return &ConfigCache{cfg: cfg, rdb: rdb}
}

const formConfigCacheKey = "form_config"

func (cc *ConfigCache) key() string { return cc.cfg.Prefix + ":" + formConfigCacheKey }

func (cc *ConfigCache) enabled() bool { return cc != nil && cc.cfg.Enabled && cc.rdb != nil }

// Middleware serves the cached form-config body when present and
// stores successful JSON responses produced by the wrapped handler.
func (cc *ConfigCache) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cc.enabled() || c.Request().Method != http.MethodGet {
                return next(c)
            }
            ctx := c.Request().Context()
            if body, err := cc.rdb.Get(ctx, cc.key()).Bytes(); err == nil {
                c.Response().Header().Set("X-Cache", "HIT")
                return c.JSONBlob(http.StatusOK, body)
            }
            rec := &bodyRecorder{ResponseWriter: c.Response().Writer}
            c.Response().Writer = rec
            if err := next(c); err != nil {
                return err
            }
            if rec.status == 0 || rec.status == http.StatusOK {
                cc.rdb.Set(ctx, cc.key(), rec.body, cc.cfg.TTL)
            }
            return nil
        }
    }
}

// Invalidate drops the cached entry.  Called after every config save
// so admins see their change immediately.
func (cc *ConfigCache) Invalidate(ctx context.Context) {
    if !cc.enabled() {
        return
    }
    cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    cc.rdb.Del(cctx, cc.key())
}

// bodyRecorder forwards writes to the client while keeping a copy for
// the cache.
type bodyRecorder struct {
    http.ResponseWriter
    status int
    body   []byte
}

func (r *bodyRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
    r.body = append(r.body, b...)
    return r.ResponseWriter.Write(b)
}
