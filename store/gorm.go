package store

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zjkm666/ust-legazpi-mhs/models"
)

// Gorm bundles the gorm-backed implementations of every store contract.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Users() UserStore         { return &gormUsers{db: g.db} }
func (g *Gorm) MoodLogs() MoodLogStore   { return &gormMoodLogs{db: g.db} }
func (g *Gorm) Sessions() SessionStore   { return &gormSessions{db: g.db} }
func (g *Gorm) Bookmarks() BookmarkStore { return &gormBookmarks{db: g.db} }

// ---- users ----

type gormUsers struct {
	db *gorm.DB
}

func (g *gormUsers) Create(u *models.User) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Create(u).Error
	})
}

func (g *gormUsers) GetByID(id string) (*models.User, error) {
	var u models.User
	if err := g.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *gormUsers) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := g.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *gormUsers) Update(u *models.User) error {
	return g.db.Save(u).Error
}

func (g *gormUsers) SetActive(id string, active bool) error {
	res := g.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *gormUsers) query(f UserFilter) *gorm.DB {
	q := g.db.Model(&models.User{})
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}
	return q
}

func (g *gormUsers) List(f UserFilter) ([]models.User, int64, error) {
	var total int64
	if err := g.query(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	q := g.query(f).Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (g *gormUsers) Count(f UserFilter) (int64, error) {
	var total int64
	err := g.query(f).Count(&total).Error
	return total, err
}

func (g *gormUsers) AddMoodLogCount(id string, delta int) error {
	return g.db.Model(&models.User{}).Where("id = ?", id).
		Update("mood_logs", gorm.Expr("mood_logs + ?", delta)).Error
}

func (g *gormUsers) AddSessionCount(id string, delta int) error {
	return g.db.Model(&models.User{}).Where("id = ?", id).
		Update("counseling_sessions", gorm.Expr("counseling_sessions + ?", delta)).Error
}

func (g *gormUsers) SetBookmarkCount(id string, n int) error {
	return g.db.Model(&models.User{}).Where("id = ?", id).
		Update("resources_bookmarked", n).Error
}

// ---- mood logs ----

type gormMoodLogs struct {
	db *gorm.DB
}

// dayBounds returns local midnight to midnight around t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func (g *gormMoodLogs) Create(log *models.MoodLog) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		start, end := dayBounds(log.Date)
		// Locking read, so concurrent inserts for the same day serialize
		// instead of both passing the count under REPEATABLE READ.
		var count int64
		if err := tx.Model(&models.MoodLog{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND date >= ? AND date < ?", log.UserID, start, end).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Create(log).Error
	})
}

func (g *gormMoodLogs) GetOwned(id, userID string) (*models.MoodLog, error) {
	var m models.MoodLog
	if err := g.db.Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (g *gormMoodLogs) UpdateNotes(id, userID, notes string) error {
	res := g.db.Model(&models.MoodLog{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *gormMoodLogs) Delete(id, userID string) error {
	res := g.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.MoodLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *gormMoodLogs) ListByUser(userID string, since time.Time, offset, limit int) ([]models.MoodLog, int64, error) {
	q := g.db.Model(&models.MoodLog{}).Where("user_id = ? AND date >= ?", userID, since)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []models.MoodLog
	if err := q.Order("date DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (g *gormMoodLogs) ListWindow(userID string, since time.Time) ([]models.MoodLog, error) {
	var logs []models.MoodLog
	err := g.db.Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").Find(&logs).Error
	return logs, err
}

func (g *gormMoodLogs) CountSince(since time.Time) (int64, error) {
	var total int64
	err := g.db.Model(&models.MoodLog{}).Where("date >= ?", since).Count(&total).Error
	return total, err
}

func (g *gormMoodLogs) DistributionSince(since time.Time) (map[string]int64, error) {
	rows := []struct {
		Mood  string
		Count int64
	}{}
	err := g.db.Model(&models.MoodLog{}).
		Select("mood, COUNT(*) AS count").
		Where("date >= ?", since).
		Group("mood").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	dist := make(map[string]int64, len(rows))
	for _, r := range rows {
		dist[r.Mood] = r.Count
	}
	return dist, nil
}

func (g *gormMoodLogs) DailyAveragesSince(since time.Time) ([]DailyMoodPoint, error) {
	// Aggregated in Go rather than SQL so the score mapping lives in one
	// place (models.MoodLog.Score).
	logs := []models.MoodLog{}
	if err := g.db.Where("date >= ?", since).Order("date ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return aggregateDaily(logs), nil
}

func (g *gormMoodLogs) StrugglingSince(since time.Time) ([]StrugglingUser, error) {
	logs := []models.MoodLog{}
	err := g.db.
		Where("mood IN ? AND date >= ?", []string{models.MoodDifficult, models.MoodStruggling}, since).
		Order("date ASC").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return aggregateStruggling(logs), nil
}

// aggregateDaily folds ascending-ordered logs into one point per day.
func aggregateDaily(logs []models.MoodLog) []DailyMoodPoint {
	type acc struct {
		day   time.Time
		count int64
		sum   int64
	}
	byDay := map[string]*acc{}
	var order []string
	for i := range logs {
		day, _ := dayBounds(logs[i].Date)
		key := day.Format("2006-01-02")
		a, ok := byDay[key]
		if !ok {
			a = &acc{day: day}
			byDay[key] = a
			order = append(order, key)
		}
		a.count++
		a.sum += int64(logs[i].Score())
	}
	points := make([]DailyMoodPoint, 0, len(order))
	for _, key := range order {
		a := byDay[key]
		points = append(points, DailyMoodPoint{
			Day:          a.day,
			Count:        a.count,
			AverageScore: float64(a.sum) / float64(a.count),
		})
	}
	return points
}

// aggregateStruggling folds ascending-ordered low-mood logs into per-user
// summaries, most entries first.
func aggregateStruggling(logs []models.MoodLog) []StrugglingUser {
	byUser := map[string]*StrugglingUser{}
	for i := range logs {
		s, ok := byUser[logs[i].UserID]
		if !ok {
			s = &StrugglingUser{UserID: logs[i].UserID}
			byUser[logs[i].UserID] = s
		}
		s.Count++
		// Ascending order means the last row seen is the latest.
		s.LatestMood = logs[i].Mood
		s.LatestDate = logs[i].Date
	}
	out := make([]StrugglingUser, 0, len(byUser))
	for _, s := range byUser {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// ---- counseling sessions ----

type gormSessions struct {
	db *gorm.DB
}

func messageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("session_messages.timestamp ASC, session_messages.id ASC")
}

func (g *gormSessions) CreateIfNoneOpen(s *models.CounselingSession) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		// Locking read, same reason as gormMoodLogs.Create.
		var count int64
		if err := tx.Model(&models.CounselingSession{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status IN ?", s.UserID,
				[]string{models.SessionPending, models.SessionActive}).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Create(s).Error
	})
}

func (g *gormSessions) GetOwned(id, userID string) (*models.CounselingSession, error) {
	var s models.CounselingSession
	err := g.db.Preload("Messages", messageOrder).
		Where("id = ? AND user_id = ?", id, userID).First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *gormSessions) FindOpenByUser(userID string) (*models.CounselingSession, error) {
	var s models.CounselingSession
	err := g.db.Preload("Messages", messageOrder).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.SessionPending, models.SessionActive}).First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *gormSessions) Transition(id string, from []string, updates map[string]interface{}) error {
	res := g.db.Model(&models.CounselingSession{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := g.db.Model(&models.CounselingSession{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

func (g *gormSessions) AppendMessage(sessionID, expectStatus string, msg *models.SessionMessage) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var s models.CounselingSession
		if err := tx.Select("id", "status").Where("id = ?", sessionID).First(&s).Error; err != nil {
			return translate(err)
		}
		if s.Status != expectStatus {
			return ErrConflict
		}
		msg.SessionID = sessionID
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.CounselingSession{}).Where("id = ?", sessionID).
			Update("updated_at", time.Now()).Error
	})
}

func (g *gormSessions) query(f SessionFilter) *gorm.DB {
	q := g.db.Model(&models.CounselingSession{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

func (g *gormSessions) List(f SessionFilter) ([]models.CounselingSession, int64, error) {
	var total int64
	if err := g.query(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var sessions []models.CounselingSession
	q := g.query(f).Preload("Messages", messageOrder).Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (g *gormSessions) CountByStatus(status string) (int64, error) {
	var total int64
	err := g.db.Model(&models.CounselingSession{}).Where("status = ?", status).Count(&total).Error
	return total, err
}

func (g *gormSessions) CountAll() (int64, error) {
	var total int64
	err := g.db.Model(&models.CounselingSession{}).Count(&total).Error
	return total, err
}

func (g *gormSessions) ListRecent(limit int) ([]models.CounselingSession, error) {
	var sessions []models.CounselingSession
	err := g.db.Order("created_at DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// ---- bookmarks ----

type gormBookmarks struct {
	db *gorm.DB
}

func (g *gormBookmarks) Toggle(userID, resourceID string) (bool, int64, error) {
	var added bool
	var total int64
	err := g.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND resource_id = ?", userID, resourceID).
			Delete(&models.ResourceBookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			added = true
			if err := tx.Create(&models.ResourceBookmark{
				UserID:     userID,
				ResourceID: resourceID,
			}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.ResourceBookmark{}).
			Where("user_id = ?", userID).Count(&total).Error
	})
	return added, total, err
}

func (g *gormBookmarks) List(userID string) ([]string, error) {
	var ids []string
	err := g.db.Model(&models.ResourceBookmark{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("resource_id", &ids).Error
	return ids, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
