package middleware

import (
	"net/http"
	"sync"
	"time"

	"wareinc/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventanas counts requests per client IP in fixed windows.
type ventanas struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*ventana
}

type ventana struct {
	count int
	fin   time.Time
}

func newVentanas(limit int, window time.Duration) *ventanas {
	v := &ventanas{limit: limit, window: window, entries: make(map[string]*ventana)}
	go v.purgar(5 * time.Minute)
	return v
}

// permitir records a hit for ip and reports whether it is within the limit,
// plus the end of the current window.
func (v *ventanas) permitir(ip string, now time.Time) (bool, time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.entries[ip]
	if !ok || now.After(e.fin) {
		e = &ventana{fin: now.Add(v.window)}
		v.entries[ip] = e
	}
	e.count++
	return e.count <= v.limit, e.fin
}

// purgar drops expired windows so IPs that never return do not pile up.
func (v *ventanas) purgar(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for now := range ticker.C {
		v.mu.Lock()
		purged := 0
		for ip, e := range v.entries {
			if now.After(e.fin) {
				delete(v.entries, ip)
				purged++
			}
		}
		remaining := len(v.entries)
		v.mu.Unlock()
		if purged > 0 {
			log.Debug().Int("purged", purged).Int("remaining", remaining).Msg("rate limiter entries purged")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	v := newVentanas(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := v.permitir(c.ClientIP(), time.Now()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter allows limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	v := newVentanas(limit, window)
	return func(c *gin.Context) {
		ok, fin := v.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
