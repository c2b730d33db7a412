package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type DebateStatus string

const (
	StatusPending   DebateStatus = "pending"
	StatusRunning   DebateStatus = "running"
	StatusCompleted DebateStatus = "completed"
	StatusFailed    DebateStatus = "failed"
)

type Debate struct {
	DebateId     uuid.UUID
	InitialClaim string
	Context      string
	MaxRounds    int
	Participants []Participant
	Conversation *Conversation
	Status       DebateStatus
	Judgment     string // empty until the verifier has spoken
	Err          string
	Watchers     map[uuid.UUID]*Watcher
	CreatedAt    time.Time
	CompletedAt  *time.Time
	Mu           sync.Mutex
}

func NewDebate(participants []Participant, maxRounds int, initialClaim, context string) *Debate {
	roster := make([]Participant, len(participants))
	copy(roster, participants)
	return &Debate{
		DebateId:     uuid.New(),
		InitialClaim: initialClaim,
		Context:      context,
		MaxRounds:    maxRounds,
		Participants: roster,
		Conversation: NewConversation(),
		Status:       StatusPending,
		Watchers:     make(map[uuid.UUID]*Watcher),
		CreatedAt:    time.Now(),
	}
}

type DebateManager struct {
	Debates map[uuid.UUID]*Debate
	Mu      sync.Mutex
}

func NewDebateManager() *DebateManager {
	return &DebateManager{Debates: make(map[uuid.UUID]*Debate)}
}
