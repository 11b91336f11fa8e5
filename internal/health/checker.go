package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Pinger is the provider call the probe exercises.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the body of /healthz.
type Status struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Checker probes the price provider on a cron schedule and keeps the last
// result for /healthz.
type Checker struct {
	pinger  Pinger
	cron    *cron.Cron
	logger  *logrus.Logger
	timeout time.Duration

	mu      sync.RWMutex
	lastErr error
	lastRun time.Time
}

func NewChecker(pinger Pinger, timeout time.Duration, logger *logrus.Logger) *Checker {
	return &Checker{
		pinger:  pinger,
		cron:    cron.New(),
		logger:  logger,
		timeout: timeout,
	}
}

// Start schedules the probe and runs it once immediately. An empty schedule
// leaves the probe off; /healthz then reports only the process itself.
func (c *Checker) Start(schedule string) error {
	if schedule == "" {
		c.logger.Info("Provider probe disabled")
		return nil
	}
	if _, err := c.cron.AddFunc(schedule, c.Probe); err != nil {
		return err
	}
	c.cron.Start()
	go c.Probe()

	c.logger.WithField("schedule", schedule).Info("Provider probe scheduled")
	return nil
}

// Stop halts the schedule and waits for a running probe to finish.
func (c *Checker) Stop() {
	<-c.cron.Stop().Done()
}

// Probe pings the provider once and records the outcome.
func (c *Checker) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	err := c.pinger.Ping(ctx)

	c.mu.Lock()
	c.lastErr = err
	c.lastRun = time.Now()
	c.mu.Unlock()

	if err != nil {
		c.logger.WithError(err).Warn("Price provider probe failed")
		return
	}
	c.logger.Debug("Price provider probe succeeded")
}

// CheckHealth reports the last probe result.
func (c *Checker) CheckHealth() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	services := map[string]string{"api": "healthy"}
	overall := "healthy"

	switch {
	case c.lastRun.IsZero():
		services["coingecko"] = "unknown"
	case c.lastErr != nil:
		services["coingecko"] = "unhealthy: " + c.lastErr.Error()
		overall = "degraded"
	default:
		services["coingecko"] = "healthy"
	}

	return Status{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
	}
}

// Handler serves /healthz. A degraded provider yields 503.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.CheckHealth()

		w.Header().Set("Content-Type", "application/json")
		if status.Status == "healthy" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	}
}
