// Package domain holds the types shared between the API layer and the adapters.
package domain

import "time"

// RelatedKeyword is a keyword derived from the analyzed one together with its volume
type RelatedKeyword struct {
	Keyword string `json:"keyword"`
	Volume  int    `json:"volume"`
}

// AnalysisResult is the payload returned by the analyze endpoint
type AnalysisResult struct {
	Keyword         string           `json:"keyword"`
	SearchVolume    int              `json:"searchVolume"`
	Competition     int              `json:"competition"`
	NicheScore      string           `json:"nicheScore"`
	RelatedKeywords []RelatedKeyword `json:"relatedKeywords"`
}

// EventType identifies the kind of analysis event
type EventType string

const (
	EventTypeAnalysisCompleted EventType = "analysis.completed"
	EventTypeAnalysisRejected  EventType = "analysis.rejected"
)

// TopicAnalysisEvents is the event bus topic analysis events are published on
const TopicAnalysisEvents = "analysis.events"

// AnalysisEvent is published after every analyze request
type AnalysisEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Keyword   string          `json:"keyword"`
	Market    string          `json:"market"`
	Timestamp time.Time       `json:"timestamp"`
	Result    *AnalysisResult `json:"result,omitempty"`
}
