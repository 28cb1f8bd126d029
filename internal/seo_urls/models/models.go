package models

import (
	"time"

	"github.com/google/uuid"
)

// SeoUrl maps a human readable path to a controller action
type SeoUrl struct {
	ID         string   `bson:"_id" json:"id"`
	Path       string   `bson:"c_url" json:"c_url"`           // URL template, may contain {ctrl}/{action} placeholders
	Controller string   `bson:"controller" json:"controller"` // Registry key of the owning controller
	Action     string   `bson:"action" json:"action"`         // Action method name
	Parameters []string `bson:"parameters" json:"parameters"` // Declared parameter names, informational
	Locked     bool     `bson:"locked" json:"locked"`         // Protected system route
	Active     bool     `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewID returns a time ordered UUIDv7 string. IDs generated by one process
// sort in creation order, which breaks created_at ties left by the
// millisecond precision of BSON dates.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewSeoUrl creates a mapping that has not been stored yet
func NewSeoUrl(path, controller, action string, parameters []string, locked, active bool) *SeoUrl {
	if parameters == nil {
		parameters = []string{}
	}
	return &SeoUrl{
		Path:       path,
		Controller: controller,
		Action:     action,
		Parameters: parameters,
		Locked:     locked,
		Active:     active,
	}
}

// Key returns the natural key of the mapping
func (s *SeoUrl) Key() ActionKey {
	return ActionKey{Controller: s.Controller, Action: s.Action}
}

// IsNew reports whether the mapping has never been stored
func (s *SeoUrl) IsNew() bool {
	return s.ID == ""
}

// Fields flattens the mapping by bson field name for in-memory filtering
func (s *SeoUrl) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldID:         s.ID,
		FieldPath:       s.Path,
		FieldController: s.Controller,
		FieldAction:     s.Action,
		FieldParameters: s.Parameters,
		FieldLocked:     s.Locked,
		FieldActive:     s.Active,
		FieldCreatedAt:  s.CreatedAt,
		FieldUpdatedAt:  s.UpdatedAt,
	}
}

// Clone returns a deep copy
func (s *SeoUrl) Clone() *SeoUrl {
	clone := *s
	clone.Parameters = append([]string{}, s.Parameters...)
	return &clone
}

// ActionKey identifies a controller action
type ActionKey struct {
	Controller string
	Action     string
}

// String implements fmt.Stringer
func (k ActionKey) String() string {
	return k.Controller + "::" + k.Action
}

// DiscoveredAction is an action found on a registered controller. It is built
// fresh on every reconciliation run and never stored.
type DiscoveredAction struct {
	Controller string
	Action     string
	Route      string
	Locked     bool
	Parameters []string
}

// Key returns the natural key of the action
func (d DiscoveredAction) Key() ActionKey {
	return ActionKey{Controller: d.Controller, Action: d.Action}
}

// Collection and field names
const (
	SeoUrlsCollection = "seo_urls"

	FieldID         = "_id"
	FieldPath       = "c_url"
	FieldController = "controller"
	FieldAction     = "action"
	FieldParameters = "parameters"
	FieldLocked     = "locked"
	FieldActive     = "active"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
)

// Defaults
const (
	DefaultEntriesPerPage = 20
	MaxEntriesPerPage     = 500
	ModuleName            = "seo_urls"
)

// TableInfo describes a page of the SEO URL overview
type TableInfo struct {
	Page           int   `json:"page"`
	EntriesPerPage int   `json:"entries_per_page"`
	AvailablePages int   `json:"available_pages"`
	ShowLocked     bool  `json:"show_locked"`
	Total          int64 `json:"total"`
}
