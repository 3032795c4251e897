package auth

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var ErrThrottled = errors.New("too many login attempts")

const throttleIdle = 30 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle limits login attempts per client key.
type Throttle struct {
	mu       sync.Mutex
	perMin   int
	limiters map[string]*limiterEntry
	now      func() time.Time
}

func NewThrottle(perMinute int) *Throttle {
	if perMinute <= 0 {
		perMinute = 5
	}
	return &Throttle{perMin: perMinute, limiters: map[string]*limiterEntry{}, now: time.Now}
}

func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for k, e := range t.limiters {
		if now.Sub(e.lastSeen) > throttleIdle {
			delete(t.limiters, k)
		}
	}

	e, ok := t.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(t.perMin)), t.perMin)}
		t.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}
