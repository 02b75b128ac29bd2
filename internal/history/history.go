// Package history keeps the list of recently submitted search terms.
// It listens for completed searches on the event bus and persists the
// list in the config file.
package history

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"trialscope/internal/config"
	"trialscope/internal/eventbus"
)

// Recorder manages the recent-search list
type Recorder interface {
	Add(term string) bool
	Recent() []string
	Matching(prefix string, limit int) []string
	Close()
}

type recorder struct {
	mu          sync.RWMutex
	recent      []string
	max         int
	cfg         *config.Config
	cfgService  config.ConfigService
	bus         eventbus.EventBus
	unsubscribe func()
	logger      *zap.Logger
}

// New creates a recorder seeded from cfg.History. When cfgService is nil
// the list lives in memory only.
func New(bus eventbus.EventBus, cfgService config.ConfigService, cfg *config.Config, logger *zap.Logger) Recorder {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	max := cfg.History.MaxEntries
	if max <= 0 {
		max = config.DefaultConfig().History.MaxEntries
	}

	r := &recorder{
		recent:     append([]string(nil), cfg.History.Recent...),
		max:        max,
		cfg:        cfg,
		cfgService: cfgService,
		bus:        bus,
		logger:     logger.Named("history"),
	}
	if len(r.recent) > max {
		r.recent = r.recent[:max]
	}

	if bus != nil {
		r.unsubscribe = bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.SearchCompletedEvent); ok {
				r.Add(event.Query.Term)
			}
		})
	}
	return r
}

// Add moves term to the front of the list. Blank terms are ignored.
// It reports whether the list changed.
func (r *recorder) Add(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}

	r.mu.Lock()
	if len(r.recent) > 0 && r.recent[0] == term {
		r.mu.Unlock()
		return false
	}

	next := make([]string, 0, len(r.recent)+1)
	next = append(next, term)
	for _, t := range r.recent {
		if !strings.EqualFold(t, term) {
			next = append(next, t)
		}
	}
	if len(next) > r.max {
		next = next[:r.max]
	}
	r.recent = next
	snapshot := append([]string(nil), next...)
	r.persistLocked(snapshot)
	r.mu.Unlock()

	if r.bus != nil {
		r.bus.Publish(eventbus.HistoryChangedEvent{Recent: snapshot})
	}
	return true
}

// persistLocked writes the list to the config file; r.mu must be held
func (r *recorder) persistLocked(recent []string) {
	r.cfg.History.Recent = recent
	if r.cfgService == nil {
		return
	}
	if err := r.cfgService.Save(r.cfg); err != nil {
		r.logger.Warn("failed to save search history", zap.Error(err))
	}
}

// Recent returns the list, most recent first
func (r *recorder) Recent() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.recent...)
}

// Matching returns up to limit recent terms starting with prefix
// (case-insensitive). A blank prefix matches nothing.
func (r *recorder) Matching(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, t := range r.recent {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(t), prefix) {
			out = append(out, t)
		}
	}
	return out
}

// Close stops listening for search events
func (r *recorder) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}
