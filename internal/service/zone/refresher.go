// internal/service/zone/refresher.go

package zone

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	zoneDomain "denguecero/internal/domain/zone"
)

// SummaryUpdatedEvent is the event type of a changed public summary
const SummaryUpdatedEvent = "zones.public.updated"

// Publisher sends raw payloads to a subject; *nats.Conn satisfies it
type Publisher interface {
	Publish(subject string, data []byte) error
}

// RefresherConfig contains configuration for the public summary refresher
type RefresherConfig struct {
	Interval    time.Duration
	EventsTopic string
}

// PublicSubject is the subject carrying public summary updates
func PublicSubject(eventsTopic string) string {
	return eventsTopic + ".public.updated"
}

// Refresher periodically rebuilds the public summary, keeping the cache warm
// and publishing the summary whenever its zones change.
type Refresher struct {
	service   *Service
	publisher Publisher
	config    RefresherConfig
	logger    *zap.Logger

	mu          sync.Mutex
	fingerprint string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher creates a new refresher
func NewRefresher(
	service *Service,
	publisher Publisher,
	config RefresherConfig,
	logger *zap.Logger,
) *Refresher {
	return &Refresher{
		service:   service,
		publisher: publisher,
		config:    config,
		logger:    logger,
	}
}

// Start runs a first refresh and then refreshes on every interval
func (r *Refresher) Start(ctx context.Context) error {
	if r.config.Interval <= 0 {
		return eris.New("zone: refresh interval must be positive")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	return nil
}

// Stop halts the refresh loop, waiting at most until ctx is done
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.tick()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Refresher) tick() {
	ctx, cancel := context.WithTimeout(r.ctx, 30*time.Second)
	defer cancel()

	if _, err := r.Refresh(ctx); err != nil {
		r.logger.Error("public summary refresh failed", zap.Error(err))
	}
}

// Refresh rebuilds the summary and publishes it if its zones changed.
// It reports whether an event was published.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	summary, err := r.service.RefreshPublicSummary(ctx)
	if err != nil {
		return false, err
	}

	fp, err := fingerprint(summary)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if fp == r.fingerprint {
		return false, nil
	}

	event := zoneDomain.SummaryEvent{
		ID:      uuid.New().String(),
		Type:    SummaryUpdatedEvent,
		Time:    summary.Metadata.LastUpdated,
		Summary: summary,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return false, eris.Wrap(err, "zone: marshal summary event")
	}

	if err := r.publisher.Publish(PublicSubject(r.config.EventsTopic), data); err != nil {
		return false, eris.Wrap(err, "zone: publish summary event")
	}

	r.fingerprint = fp
	r.logger.Info("published public summary",
		zap.String("event_id", event.ID),
		zap.Int("zones", summary.Metadata.TotalZones),
		zap.Int("cases", summary.Metadata.TotalCases),
	)
	return true, nil
}

// fingerprint identifies the zone content of a summary, ignoring its timestamp
func fingerprint(summary *zoneDomain.PublicSummary) (string, error) {
	data, err := json.Marshal(summary.ZoneStats)
	if err != nil {
		return "", eris.Wrap(err, "zone: fingerprint summary")
	}
	return string(data), nil
}
