package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/store"
)

// CounselingOptions tunes the simulated parts of the session lifecycle.
type CounselingOptions struct {
	// MatchDelay is how long a request stays pending before the
	// simulated counselor match fires. Placeholder for a real matching
	// algorithm.
	MatchDelay time.Duration
	// ReplyMinDelay/ReplyMaxDelay bound the random simulated-reply
	// delay, chosen independently per user message.
	ReplyMinDelay time.Duration
	ReplyMaxDelay time.Duration
	// SupportDelay decouples the crisis support prompt from the
	// message-send response path.
	SupportDelay time.Duration
	// CounselorID is bound to a session when the match fires.
	CounselorID string
	Logger      *zap.SugaredLogger
}

func (o *CounselingOptions) fill() {
	if o.MatchDelay <= 0 {
		o.MatchDelay = 2 * time.Second
	}
	if o.ReplyMinDelay <= 0 {
		o.ReplyMinDelay = time.Second
	}
	if o.ReplyMaxDelay <= o.ReplyMinDelay {
		o.ReplyMaxDelay = o.ReplyMinDelay + 2*time.Second
	}
	if o.SupportDelay <= 0 {
		o.SupportDelay = 500 * time.Millisecond
	}
	if o.CounselorID == "" {
		o.CounselorID = "peer-counselor-001"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
}

// CounselingService owns the session lifecycle: pending -> active ->
// completed, with cancellation legal until a terminal state. All delayed
// effects go through the Scheduler and re-validate the session status at
// fire time, so a timer that outlives its session does nothing.
type CounselingService struct {
	sessions store.SessionStore
	users    store.UserStore
	sched    Scheduler
	crisis   *CrisisDetector
	opts     CounselingOptions
	log      *zap.SugaredLogger
}

func NewCounselingService(sessions store.SessionStore, users store.UserStore, sched Scheduler, crisis *CrisisDetector, opts CounselingOptions) *CounselingService {
	opts.fill()
	if crisis == nil {
		crisis = NewCrisisDetector(nil)
	}
	return &CounselingService{
		sessions: sessions,
		users:    users,
		sched:    sched,
		crisis:   crisis,
		opts:     opts,
		log:      opts.Logger,
	}
}

// SendMessageResult is what a message send hands back to the boundary.
// CrisisDetected is advisory only (see CrisisDetector).
type SendMessageResult struct {
	Message        models.SessionMessage
	CrisisDetected bool
}

// Request opens a new counseling session for the student. A student may
// hold at most one pending-or-active session; a second request is
// rejected outright rather than queued.
func (s *CounselingService) Request(userID, category, urgency string) (*models.CounselingSession, error) {
	if !models.IsValidCategory(category) {
		return nil, NewValidationError("invalid counseling category")
	}
	if !models.IsValidUrgency(urgency) {
		return nil, NewValidationError("invalid urgency level")
	}

	now := time.Now()
	session := &models.CounselingSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Category:  category,
		Urgency:   urgency,
		Status:    models.SessionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.CreateIfNoneOpen(session); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, NewConflictError("you already have an active or pending counseling session")
		}
		return nil, err
	}

	// Simulated counselor matching. The delay stands in for a real
	// matching algorithm; the status guard makes a late fire harmless.
	sessionID := session.ID
	s.sched.Schedule(sessionID, "match", s.opts.MatchDelay, func() {
		s.matchSession(sessionID)
	})

	s.log.Infow("counseling session requested",
		"sessionID", session.ID,
		"userID", userID,
		"category", category,
		"urgency", urgency,
	)
	return session, nil
}

func (s *CounselingService) matchSession(sessionID string) {
	err := s.sessions.Transition(sessionID,
		[]string{models.SessionPending},
		map[string]interface{}{
			"status":       models.SessionActive,
			"counselor_id": s.opts.CounselorID,
			"start_time":   time.Now(),
		})
	if err != nil {
		// Cancelled or gone before the match fired; nothing to do.
		if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound) {
			return
		}
		s.log.Errorw("counselor match failed", "error", err, "sessionID", sessionID)
		return
	}
	s.log.Infow("counselor matched", "sessionID", sessionID, "counselorID", s.opts.CounselorID)
}

// SendMessage appends a chat line to an active session owned by the
// caller. User messages trigger a simulated counselor reply after a
// random delay, and are scanned for crisis keywords.
func (s *CounselingService) SendMessage(sessionID, userID, sender, message string) (*SendMessageResult, error) {
	if sender != models.SenderUser && sender != models.SenderCounselor {
		return nil, NewValidationError("invalid message sender")
	}
	if len(message) == 0 || len(message) > 500 {
		return nil, NewValidationError("message must be between 1 and 500 characters")
	}

	session, err := s.sessions.GetOwned(sessionID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("active session not found")
		}
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, NewNotFoundError("active session not found")
	}

	msg := models.SessionMessage{
		Sender:    sender,
		Message:   message,
		Timestamp: time.Now(),
	}
	if err := s.sessions.AppendMessage(sessionID, models.SessionActive, &msg); err != nil {
		// The session closed between the ownership check and the append.
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return nil, NewNotFoundError("active session not found")
		}
		return nil, err
	}

	crisisHit := false
	if sender == models.SenderUser {
		crisisHit = s.crisis.Scan(message)
		if crisisHit {
			s.log.Warnw("crisis keywords detected in session message",
				"sessionID", sessionID, "userID", userID)
			s.sched.Schedule(sessionID, "crisis-support", s.opts.SupportDelay, func() {
				s.appendSimulated(sessionID, crisisSupportPrompt)
			})
		}

		// Fire-and-forget simulated reply; silently dropped if the
		// session is no longer active when the timer fires.
		reply := s.pickCounselorReply(message)
		delay := s.opts.ReplyMinDelay +
			time.Duration(rand.Int63n(int64(s.opts.ReplyMaxDelay-s.opts.ReplyMinDelay)))
		key := fmt.Sprintf("reply-%s", uuid.New().String())
		s.sched.Schedule(sessionID, key, delay, func() {
			s.appendSimulated(sessionID, reply)
		})
	}

	return &SendMessageResult{Message: msg, CrisisDetected: crisisHit}, nil
}

// appendSimulated adds a counselor line unless the session has closed.
func (s *CounselingService) appendSimulated(sessionID, text string) {
	msg := models.SessionMessage{
		Sender:    models.SenderCounselor,
		Message:   text,
		Timestamp: time.Now(),
	}
	err := s.sessions.AppendMessage(sessionID, models.SessionActive, &msg)
	if err != nil && !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrConflict) {
		s.log.Errorw("simulated counselor reply failed", "error", err, "sessionID", sessionID)
	}
}

// EndSession completes an active session, optionally attaching a rating
// in [1,5] and feedback, and credits the student's lifetime counter.
func (s *CounselingService) EndSession(sessionID, userID string, rating *int, feedback string) (*models.CounselingSession, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, NewValidationError("rating must be between 1 and 5")
	}
	if len(feedback) > 1000 {
		return nil, NewValidationError("feedback cannot exceed 1000 characters")
	}

	if _, err := s.sessions.GetOwned(sessionID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"status":   models.SessionCompleted,
		"end_time": time.Now(),
	}
	if rating != nil {
		updates["rating"] = *rating
		updates["feedback"] = feedback
	}
	if err := s.sessions.Transition(sessionID, []string{models.SessionActive}, updates); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, NewStateError("only an active session can be ended")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}

	s.sched.CancelSession(sessionID)
	if err := s.users.AddSessionCount(userID, 1); err != nil {
		s.log.Errorw("session counter update failed", "error", err, "userID", userID)
	}

	s.log.Infow("counseling session completed", "sessionID", sessionID, "userID", userID)
	return s.sessions.GetOwned(sessionID, userID)
}

// CancelSession cancels a pending or active session. No rating is taken;
// a terminal session stays exactly as it was.
func (s *CounselingService) CancelSession(sessionID, userID string) (*models.CounselingSession, error) {
	if _, err := s.sessions.GetOwned(sessionID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}

	err := s.sessions.Transition(sessionID,
		[]string{models.SessionPending, models.SessionActive},
		map[string]interface{}{
			"status":   models.SessionCancelled,
			"end_time": time.Now(),
		})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, NewStateError("session is already closed")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}

	s.sched.CancelSession(sessionID)
	s.log.Infow("counseling session cancelled", "sessionID", sessionID, "userID", userID)
	return s.sessions.GetOwned(sessionID, userID)
}

// CurrentSession returns the caller's open session, nil when there is none.
func (s *CounselingService) CurrentSession(userID string) (*models.CounselingSession, error) {
	session, err := s.sessions.FindOpenByUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// ListSessions pages through the caller's session history.
func (s *CounselingService) ListSessions(userID, status string, page, limit int) ([]models.CounselingSession, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.sessions.List(store.SessionFilter{
		UserID: userID,
		Status: status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
}
