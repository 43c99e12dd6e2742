package relationship

import (
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically flips overdue pending requests to expired. Reads
// already expire lazily, so the sweep only bounds how long dead rows stay
// pending in listings and storage.
type Sweeper struct {
	service  *Service
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper creates a sweeper over the given state machine.
func NewSweeper(service *Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop in its own goroutine until Stop.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the loop and waits for the in-flight sweep to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) sweep() {
	expired, err := s.service.ExpireOverdue()
	if err != nil {
		zap.L().Error("request expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		zap.L().Info("request expiry sweep", zap.Int64("expired", expired))
	}
}
