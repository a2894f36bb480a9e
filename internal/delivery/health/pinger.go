package health

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger periodically GETs an external URL so the hosting platform sees
// traffic and keeps the instance alive. Failures are logged and ignored.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
}

func NewPinger(url string, interval, timeout time.Duration, logger *zap.Logger) *Pinger {
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. A no-op when no URL is configured.
func (p *Pinger) Run(ctx context.Context) {
	if p.url == "" {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Warn("keep-alive ping setup failed", zap.Error(err))
		return
	}
	response, err := p.client.Do(request)
	if err != nil {
		p.logger.Warn("keep-alive ping failed", zap.Error(err))
		return
	}
	_ = response.Body.Close()
	p.logger.Debug("keep-alive ping", zap.Int("status", response.StatusCode))
}
