package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type MatchCreatedEvent struct {
	Type        string    `json:"type"`
	MatchID     uuid.UUID `json:"match_id"`
	RequesterID uuid.UUID `json:"requester_id"`
	Score       float64   `json:"score"`
	Timestamp   string    `json:"timestamp"`
}

type SessionScheduledEvent struct {
	Type        string    `json:"type"`
	SessionID   uuid.UUID `json:"session_id"`
	Skill       string    `json:"skill"`
	ScheduledAt string    `json:"scheduled_at"`
	Timestamp   string    `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

func NotifyMatchCreated(candidateID, matchID, requesterID uuid.UUID, score float64) {
	h := defaultHub.Load()
	if h == nil || candidateID == uuid.Nil {
		return
	}

	evt := MatchCreatedEvent{
		Type:        "match_created",
		MatchID:     matchID,
		RequesterID: requesterID,
		Score:       score,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Send(candidateID, b)
}

func NotifySessionScheduled(userID, sessionID uuid.UUID, skill string, scheduledAt time.Time) {
	h := defaultHub.Load()
	if h == nil || userID == uuid.Nil {
		return
	}

	evt := SessionScheduledEvent{
		Type:        "session_scheduled",
		SessionID:   sessionID,
		Skill:       skill,
		ScheduledAt: scheduledAt.UTC().Format(time.RFC3339),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Send(userID, b)
}
