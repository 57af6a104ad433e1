package service

import (
	"strings"
	"sync"
	"time"
)

// OTPRateLimiter limita intentos por telefono. Se usa una instancia para solicitudes
// de codigo y otra para intentos de verificacion.
type OTPRateLimiter interface {
	Allow(phoneNumber string) bool
}

// memoryOTPRateLimiter es una ventana deslizante por telefono. Los telefonos sin
// intentos vigentes se borran del mapa.
type memoryOTPRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	attempts  map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewOTPRateLimiter crea un rate limiter en memoria.
func NewOTPRateLimiter(window time.Duration, max int) OTPRateLimiter {
	return newMemoryOTPRateLimiter(window, max, func() time.Time { return time.Now().UTC() })
}

func newMemoryOTPRateLimiter(window time.Duration, max int, now func() time.Time) *memoryOTPRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryOTPRateLimiter{
		window:   window,
		max:      max,
		attempts: make(map[string][]time.Time),
		now:      now,
	}
}

func (l *memoryOTPRateLimiter) Allow(phoneNumber string) bool {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	recent := pruneBefore(l.attempts[phoneNumber], cutoff)
	if len(recent) >= l.max {
		l.attempts[phoneNumber] = recent
		return false
	}
	l.attempts[phoneNumber] = append(recent, now)
	return true
}

// sweep descarta los telefonos cuyos intentos ya salieron de la ventana.
func (l *memoryOTPRateLimiter) sweep(cutoff time.Time) {
	for phone, ts := range l.attempts {
		if recent := pruneBefore(ts, cutoff); len(recent) == 0 {
			delete(l.attempts, phone)
		} else {
			l.attempts[phone] = recent
		}
	}
}

func (l *memoryOTPRateLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}

// pruneBefore conserva los instantes posteriores a cutoff; la slice esta ordenada.
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == len(ts) {
		return nil
	}
	return ts[i:]
}
