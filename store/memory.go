package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zjkm666/ust-legazpi-mhs/models"
)

// Memory is an in-memory implementation of every store contract, used by
// tests. A single mutex guards all collections, which also makes the
// check-and-insert operations atomic.
type Memory struct {
	mu        sync.Mutex
	users     map[string]*models.User
	moods     map[string]*models.MoodLog
	sessions  map[string]*models.CounselingSession
	bookmarks map[string]map[string]time.Time
	msgSeq    uint
}

func NewMemory() *Memory {
	return &Memory{
		users:     map[string]*models.User{},
		moods:     map[string]*models.MoodLog{},
		sessions:  map[string]*models.CounselingSession{},
		bookmarks: map[string]map[string]time.Time{},
	}
}

func (m *Memory) Users() UserStore         { return &memUsers{m} }
func (m *Memory) MoodLogs() MoodLogStore   { return &memMoodLogs{m} }
func (m *Memory) Sessions() SessionStore   { return &memSessions{m} }
func (m *Memory) Bookmarks() BookmarkStore { return &memBookmarks{m} }

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyMood(l *models.MoodLog) *models.MoodLog {
	c := *l
	return &c
}

func copySession(s *models.CounselingSession) *models.CounselingSession {
	c := *s
	c.Messages = append([]models.SessionMessage(nil), s.Messages...)
	return &c
}

// ---- users ----

type memUsers struct {
	m *Memory
}

func (s *memUsers) Create(u *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.users {
		if existing.Email == u.Email {
			return ErrConflict
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.m.users[u.ID] = copyUser(u)
	return nil
}

func (s *memUsers) GetByID(id string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (s *memUsers) GetByEmail(email string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUsers) Update(u *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[u.ID]; !ok {
		return ErrNotFound
	}
	s.m.users[u.ID] = copyUser(u)
	return nil
}

func (s *memUsers) SetActive(id string, active bool) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (s *memUsers) matches(u *models.User, f UserFilter) bool {
	if f.ActiveOnly && !u.IsActive {
		return false
	}
	if f.Type != "" && u.Type != f.Type {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.Email), needle) &&
			!strings.Contains(strings.ToLower(u.FirstName), needle) &&
			!strings.Contains(strings.ToLower(u.LastName), needle) {
			return false
		}
	}
	return true
}

func (s *memUsers) List(f UserFilter) ([]models.User, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var all []models.User
	for _, u := range s.m.users {
		if s.matches(u, f) {
			all = append(all, *copyUser(u))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	all = page(all, f.Offset, f.Limit)
	return all, total, nil
}

func (s *memUsers) Count(f UserFilter) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var total int64
	for _, u := range s.m.users {
		if s.matches(u, f) {
			total++
		}
	}
	return total, nil
}

func (s *memUsers) AddMoodLogCount(id string, delta int) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if u, ok := s.m.users[id]; ok {
		u.MoodLogs += delta
	}
	return nil
}

func (s *memUsers) AddSessionCount(id string, delta int) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if u, ok := s.m.users[id]; ok {
		u.CounselingSessions += delta
	}
	return nil
}

func (s *memUsers) SetBookmarkCount(id string, n int) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if u, ok := s.m.users[id]; ok {
		u.ResourcesBookmarked = n
	}
	return nil
}

// ---- mood logs ----

type memMoodLogs struct {
	m *Memory
}

func (s *memMoodLogs) Create(log *models.MoodLog) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	start, end := dayBounds(log.Date)
	for _, existing := range s.m.moods {
		if existing.UserID == log.UserID &&
			!existing.Date.Before(start) && existing.Date.Before(end) {
			return ErrConflict
		}
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	s.m.moods[log.ID] = copyMood(log)
	return nil
}

func (s *memMoodLogs) GetOwned(id, userID string) (*models.MoodLog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	l, ok := s.m.moods[id]
	if !ok || l.UserID != userID {
		return nil, ErrNotFound
	}
	return copyMood(l), nil
}

func (s *memMoodLogs) UpdateNotes(id, userID, notes string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	l, ok := s.m.moods[id]
	if !ok || l.UserID != userID {
		return ErrNotFound
	}
	l.Notes = notes
	l.UpdatedAt = time.Now()
	return nil
}

func (s *memMoodLogs) Delete(id, userID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	l, ok := s.m.moods[id]
	if !ok || l.UserID != userID {
		return ErrNotFound
	}
	delete(s.m.moods, id)
	return nil
}

func (s *memMoodLogs) ListByUser(userID string, since time.Time, offset, limit int) ([]models.MoodLog, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var all []models.MoodLog
	for _, l := range s.m.moods {
		if l.UserID == userID && !l.Date.Before(since) {
			all = append(all, *copyMood(l))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	total := int64(len(all))
	all = page(all, offset, limit)
	return all, total, nil
}

func (s *memMoodLogs) ListWindow(userID string, since time.Time) ([]models.MoodLog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var all []models.MoodLog
	for _, l := range s.m.moods {
		if l.UserID == userID && !l.Date.Before(since) {
			all = append(all, *copyMood(l))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all, nil
}

func (s *memMoodLogs) all(since time.Time) []models.MoodLog {
	var out []models.MoodLog
	for _, l := range s.m.moods {
		if !l.Date.Before(since) {
			out = append(out, *copyMood(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *memMoodLogs) CountSince(since time.Time) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return int64(len(s.all(since))), nil
}

func (s *memMoodLogs) DistributionSince(since time.Time) (map[string]int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	dist := map[string]int64{}
	for _, l := range s.all(since) {
		dist[l.Mood]++
	}
	return dist, nil
}

func (s *memMoodLogs) DailyAveragesSince(since time.Time) ([]DailyMoodPoint, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return aggregateDaily(s.all(since)), nil
}

func (s *memMoodLogs) StrugglingSince(since time.Time) ([]StrugglingUser, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var low []models.MoodLog
	for _, l := range s.all(since) {
		if l.Mood == models.MoodDifficult || l.Mood == models.MoodStruggling {
			low = append(low, l)
		}
	}
	return aggregateStruggling(low), nil
}

// ---- counseling sessions ----

type memSessions struct {
	m *Memory
}

func (s *memSessions) CreateIfNoneOpen(sess *models.CounselingSession) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.sessions {
		if existing.UserID == sess.UserID && existing.IsOpen() {
			return ErrConflict
		}
	}
	now := time.Now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = now
	}
	s.m.sessions[sess.ID] = copySession(sess)
	return nil
}

func (s *memSessions) GetOwned(id, userID string) (*models.CounselingSession, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sess, ok := s.m.sessions[id]
	if !ok || sess.UserID != userID {
		return nil, ErrNotFound
	}
	return copySession(sess), nil
}

func (s *memSessions) FindOpenByUser(userID string) (*models.CounselingSession, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, sess := range s.m.sessions {
		if sess.UserID == userID && sess.IsOpen() {
			return copySession(sess), nil
		}
	}
	return nil, ErrNotFound
}

func (s *memSessions) Transition(id string, from []string, updates map[string]interface{}) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sess, ok := s.m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	allowed := false
	for _, st := range from {
		if sess.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrConflict
	}
	applySessionUpdates(sess, updates)
	sess.UpdatedAt = time.Now()
	return nil
}

// applySessionUpdates mirrors the column map the gorm implementation
// receives onto the struct fields.
func applySessionUpdates(sess *models.CounselingSession, updates map[string]interface{}) {
	for col, val := range updates {
		switch col {
		case "status":
			sess.Status = val.(string)
		case "counselor_id":
			sess.CounselorID = val.(string)
		case "start_time":
			t := val.(time.Time)
			sess.StartTime = &t
		case "end_time":
			t := val.(time.Time)
			sess.EndTime = &t
		case "rating":
			if val != nil {
				r := val.(int)
				sess.Rating = &r
			}
		case "feedback":
			sess.Feedback = val.(string)
		}
	}
}

func (s *memSessions) AppendMessage(sessionID, expectStatus string, msg *models.SessionMessage) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sess, ok := s.m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	if sess.Status != expectStatus {
		return ErrConflict
	}
	s.m.msgSeq++
	msg.ID = s.m.msgSeq
	msg.SessionID = sessionID
	sess.Messages = append(sess.Messages, *msg)
	sess.UpdatedAt = time.Now()
	return nil
}

func (s *memSessions) List(f SessionFilter) ([]models.CounselingSession, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var all []models.CounselingSession
	for _, sess := range s.m.sessions {
		if f.UserID != "" && sess.UserID != f.UserID {
			continue
		}
		if f.Status != "" && sess.Status != f.Status {
			continue
		}
		if f.Category != "" && sess.Category != f.Category {
			continue
		}
		all = append(all, *copySession(sess))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	all = page(all, f.Offset, f.Limit)
	return all, total, nil
}

func (s *memSessions) CountByStatus(status string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var total int64
	for _, sess := range s.m.sessions {
		if sess.Status == status {
			total++
		}
	}
	return total, nil
}

func (s *memSessions) CountAll() (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return int64(len(s.m.sessions)), nil
}

func (s *memSessions) ListRecent(limit int) ([]models.CounselingSession, error) {
	sessions, _, err := s.List(SessionFilter{Limit: limit})
	return sessions, err
}

// ---- bookmarks ----

type memBookmarks struct {
	m *Memory
}

func (s *memBookmarks) Toggle(userID, resourceID string) (bool, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	marks, ok := s.m.bookmarks[userID]
	if !ok {
		marks = map[string]time.Time{}
		s.m.bookmarks[userID] = marks
	}
	var added bool
	if _, ok := marks[resourceID]; ok {
		delete(marks, resourceID)
	} else {
		marks[resourceID] = time.Now()
		added = true
	}
	return added, int64(len(marks)), nil
}

func (s *memBookmarks) List(userID string) ([]string, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	marks := s.m.bookmarks[userID]
	ids := make([]string, 0, len(marks))
	for id := range marks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return marks[ids[i]].Before(marks[ids[j]]) })
	return ids, nil
}

func page[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		return items
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
