package fetcher

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrHostOpen is returned when a host's breaker is rejecting requests.
var ErrHostOpen = eris.New("fetcher: host circuit open")

// breakerState of a single pricing-page host.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// hostBreaker trips after consecutive fetch failures against one host,
// so a provider whose pricing page is down stops eating retry budget
// every cycle. After resetTimeout one probe request is let through.
type hostBreaker struct {
	mu        sync.Mutex
	state     breakerState
	failures  int
	lastFail  time.Time
	threshold int
	reset     time.Duration
}

func (b *hostBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == breakerOpen {
		if time.Since(b.lastFail) < b.reset {
			return ErrHostOpen
		}
		b.state = breakerHalfOpen
	}
	return nil
}

func (b *hostBreaker) record(host string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.state != breakerClosed {
			zap.L().Info("fetcher: host circuit closed", zap.String("host", host))
		}
		b.state = breakerClosed
		b.failures = 0
		return
	}

	b.failures++
	b.lastFail = time.Now()
	if b.state == breakerHalfOpen || b.failures >= b.threshold {
		if b.state != breakerOpen {
			zap.L().Warn("fetcher: host circuit opened",
				zap.String("host", host),
				zap.Int("failures", b.failures),
			)
		}
		b.state = breakerOpen
	}
}

// hostBreakers lazily creates one breaker per host.
type hostBreakers struct {
	mu        sync.Mutex
	breakers  map[string]*hostBreaker
	threshold int
	reset     time.Duration
}

func newHostBreakers(threshold int, reset time.Duration) *hostBreakers {
	if threshold <= 0 {
		threshold = 3
	}
	if reset <= 0 {
		reset = 5 * time.Minute
	}
	return &hostBreakers{
		breakers:  make(map[string]*hostBreaker),
		threshold: threshold,
		reset:     reset,
	}
}

func (hb *hostBreakers) get(host string) *hostBreaker {
	hb.mu.Lock()
	defer hb.mu.Unlock()

	b, ok := hb.breakers[host]
	if !ok {
		b = &hostBreaker{threshold: hb.threshold, reset: hb.reset}
		hb.breakers[host] = b
	}
	return b
}
