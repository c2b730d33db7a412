package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	UserSender       = "User"
	ClaimReplyWith   = "msg1"
	ContextReplyWith = "msg2"
)

var (
	ErrNoVerifierFound = errors.New("no verifier found in roster")
	ErrNoJudgmentFound = errors.New("no judgment found in transcript")
	ErrDebateNotFound  = errors.New("debate not found")
)

type DebateService struct {
	Manager *models.DebateManager
	Invoker Invoker
	Log     *logrus.Logger
}

func NewDebateService(manager *models.DebateManager, invoker Invoker, log *logrus.Logger) *DebateService {
	return &DebateService{Manager: manager, Invoker: invoker, Log: log}
}

func (s *DebateService) CreateDebate(participants []models.Participant, maxRounds int, initialClaim, context string) *models.Debate {
	d := models.NewDebate(participants, maxRounds, initialClaim, context)

	s.Manager.Mu.Lock()
	s.Manager.Debates[d.DebateId] = d
	s.Manager.Mu.Unlock()

	s.Log.WithFields(logrus.Fields{
		"debate_id":    d.DebateId,
		"participants": len(participants),
		"max_rounds":   maxRounds,
	}).Info("Debate created")
	return d
}

func (s *DebateService) GetDebate(id uuid.UUID) (*models.Debate, error) {
	s.Manager.Mu.Lock()
	defer s.Manager.Mu.Unlock()
	d, ok := s.Manager.Debates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDebateNotFound, id)
	}
	return d, nil
}

// ListDebates returns every debate, oldest first.
func (s *DebateService) ListDebates() []*models.Debate {
	s.Manager.Mu.Lock()
	out := make([]*models.Debate, 0, len(s.Manager.Debates))
	for _, d := range s.Manager.Debates {
		out = append(out, d)
	}
	s.Manager.Mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Start runs the debate in the background.
func (s *DebateService) Start(ctx context.Context, d *models.Debate) {
	go func() {
		_, _ = s.Run(ctx, d)
	}()
}

// Run seeds the conversation, plays max rounds of debater turns each closed
// by one verifier turn, and returns the transcript. On error the transcript
// holds everything appended before the failure.
func (s *DebateService) Run(ctx context.Context, d *models.Debate) ([]models.Message, error) {
	log := s.Log.WithField("debate_id", d.DebateId)
	s.setStatus(d, models.StatusRunning, "")

	if err := s.seed(d); err != nil {
		return s.fail(d, err)
	}

	for round := 0; round < d.MaxRounds; round++ {
		log.WithField("round", round).Info("Round started")

		for _, p := range d.Participants {
			if p.IsVerifier() {
				continue
			}
			if err := s.takeTurn(ctx, d, p, round); err != nil {
				return s.fail(d, err)
			}
		}

		verifier, ok := models.FindVerifier(d.Participants)
		if !ok {
			return s.fail(d, ErrNoVerifierFound)
		}
		if err := s.takeTurn(ctx, d, verifier, round); err != nil {
			return s.fail(d, err)
		}
	}

	transcript := d.Conversation.Messages()
	judgment := ""
	if verifier, ok := models.FindVerifier(d.Participants); ok {
		if j, err := ExtractFinalJudgment(transcript, verifier.Name); err == nil {
			judgment = j
		}
	}

	now := time.Now()
	d.Mu.Lock()
	d.Status = models.StatusCompleted
	d.Judgment = judgment
	d.CompletedAt = &now
	d.Mu.Unlock()

	log.WithField("messages", d.Conversation.Len()).Info("Debate completed")
	return transcript, nil
}

func (s *DebateService) seed(d *models.Debate) error {
	if d.InitialClaim != "" {
		m, err := models.NewMessage(models.Propose, UserSender, models.Broadcast, d.InitialClaim, ClaimReplyWith)
		if err != nil {
			return err
		}
		s.AppendMessage(d, m)
	}
	if d.Context != "" {
		m, err := models.NewMessage(models.Propose, UserSender, models.Broadcast, d.Context, ContextReplyWith)
		if err != nil {
			return err
		}
		s.AppendMessage(d, m)
	}
	return nil
}

// takeTurn invokes one participant and appends its reply. Empty and
// malformed replies cost the participant its turn; invoker errors abort.
func (s *DebateService) takeTurn(ctx context.Context, d *models.Debate, p models.Participant, round int) error {
	log := s.Log.WithFields(logrus.Fields{
		"debate_id":   d.DebateId,
		"round":       round,
		"participant": p.Name,
		"role":        p.Role,
	})
	log.Info("Participant turn")

	raw, err := s.Invoker.Invoke(ctx, d.Conversation.Messages(), p.Name, p.Role.Invocation())
	if err != nil {
		return fmt.Errorf("round %d, participant %s: %w", round, p.Name, err)
	}

	result := models.Decode(raw)
	switch result.Kind {
	case models.Parsed:
		s.AppendMessage(d, result.Message)
	case models.Skip:
		log.Warn("No message this turn")
	case models.Malformed:
		log.WithError(result.Err).Warn("Discarding malformed message")
	}
	return nil
}

// AppendMessage adds m to the debate history and queues it for every
// watcher. A watcher whose queue is full is dropped rather than waited on.
func (s *DebateService) AppendMessage(d *models.Debate, m models.Message) {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	d.Conversation.Append(m)
	for id, w := range d.Watchers {
		select {
		case w.Send <- m:
		default:
			delete(d.Watchers, id)
			close(w.Send)
			s.Log.WithFields(logrus.Fields{
				"debate_id": d.DebateId,
				"watcher":   w.Name,
			}).Warn("Watcher fell behind, dropping it")
		}
	}
}

// AddWatcher queues the history for w and registers it in one step, so it
// sees every message exactly once. The caller drains w.Send with w.Pump.
func (s *DebateService) AddWatcher(d *models.Debate, w *models.Watcher) {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	history := d.Conversation.Messages()
	w.Send = make(chan models.Message, len(history)+models.WatcherQueueSize)
	for _, m := range history {
		w.Send <- m
	}
	d.Watchers[w.Id] = w
}

// RemoveWatcher unregisters w and closes its queue. It is safe to call for a
// watcher that was already dropped.
func (s *DebateService) RemoveWatcher(d *models.Debate, w *models.Watcher) {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if _, ok := d.Watchers[w.Id]; !ok {
		return
	}
	delete(d.Watchers, w.Id)
	close(w.Send)
}

func (s *DebateService) setStatus(d *models.Debate, status models.DebateStatus, errText string) {
	d.Mu.Lock()
	d.Status = status
	d.Err = errText
	d.Mu.Unlock()
}

func (s *DebateService) fail(d *models.Debate, err error) ([]models.Message, error) {
	now := time.Now()
	d.Mu.Lock()
	d.Status = models.StatusFailed
	d.Err = err.Error()
	d.CompletedAt = &now
	d.Mu.Unlock()

	s.Log.WithError(err).WithField("debate_id", d.DebateId).Error("Debate failed")
	return d.Conversation.Messages(), err
}

// ExtractFinalJudgment returns the content of the verifier's last message.
func ExtractFinalJudgment(transcript []models.Message, verifierName string) (string, error) {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Sender() == verifierName {
			return transcript[i].Content(), nil
		}
	}
	return "", ErrNoJudgmentFound
}
