package entities

import (
	"time"

	"github.com/google/uuid"
)

// DirectoryEventType represents the kind of change in the directory
type DirectoryEventType string

const (
	DirectoryEventApplicationSubmitted DirectoryEventType = "application_submitted"
	DirectoryEventReviewSubmitted      DirectoryEventType = "review_submitted"
	DirectoryEventStatusChanged        DirectoryEventType = "status_changed"
	DirectoryEventInfoPageUpdated      DirectoryEventType = "info_page_updated"
	DirectoryEventFAQAdded             DirectoryEventType = "faq_added"
)

// DirectoryEvent announces a committed change to other bot replicas
type DirectoryEvent struct {
	ID            string                 `json:"id"`
	EventType     DirectoryEventType     `json:"event_type"`
	MasterID      int64                  `json:"master_id,omitempty"`
	Slug          string                 `json:"slug,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	ChangedFields map[string]interface{} `json:"changed_fields,omitempty"`
}

// NewDirectoryEvent creates a new directory event
func NewDirectoryEvent(eventType DirectoryEventType, changedFields map[string]interface{}) *DirectoryEvent {
	return &DirectoryEvent{
		ID:            uuid.NewString(),
		EventType:     eventType,
		Timestamp:     time.Now().UTC(),
		ChangedFields: changedFields,
	}
}

// ForMaster sets the master the event refers to.
func (e *DirectoryEvent) ForMaster(id int64) *DirectoryEvent {
	e.MasterID = id
	return e
}

// ForSlug sets the info page the event refers to.
func (e *DirectoryEvent) ForSlug(slug string) *DirectoryEvent {
	e.Slug = slug
	return e
}
