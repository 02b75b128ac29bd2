package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted   EventType = "SearchStarted"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventSearchDiscarded EventType = "SearchDiscarded"
	EventDetailLoaded    EventType = "DetailLoaded"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
	EventHistoryChanged  EventType = "HistoryChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a search request is dispatched
type SearchStartedEvent struct {
	Token uint64
	Query SearchQuery
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when the latest search succeeds
type SearchCompletedEvent struct {
	Token   uint64
	Query   SearchQuery
	Results int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the latest search fails
type SearchFailedEvent struct {
	Token uint64
	Query SearchQuery
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchDiscardedEvent is emitted when a superseded response arrives
type SearchDiscardedEvent struct {
	Token  uint64
	Latest uint64
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// DetailLoadedEvent is emitted when a trial detail has been fetched
type DetailLoadedEvent struct {
	NCTID string
}

func (e DetailLoadedEvent) Type() EventType { return EventDetailLoaded }

// ConfigLoadedEvent is emitted when configuration is read from disk
type ConfigLoadedEvent struct {
	Path       string
	BackendURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted after configuration is written
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// HistoryChangedEvent is emitted when the recent-search list changes
type HistoryChangedEvent struct {
	Recent []string
}

func (e HistoryChangedEvent) Type() EventType { return EventHistoryChanged }
