package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjkm666/ust-legazpi-mhs/models"
)

func TestUsersUniqueEmail(t *testing.T) {
	users := NewMemory().Users()

	require.NoError(t, users.Create(&models.User{ID: "u1", Email: "juan@ust-legazpi.edu.ph"}))
	err := users.Create(&models.User{ID: "u2", Email: "juan@ust-legazpi.edu.ph"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUsersListFilters(t *testing.T) {
	users := NewMemory().Users()
	require.NoError(t, users.Create(&models.User{ID: "u1", Email: "juan@ust-legazpi.edu.ph", Type: models.UserTypeStudent, FirstName: "Juan", LastName: "Dela Cruz", IsActive: true}))
	require.NoError(t, users.Create(&models.User{ID: "u2", Email: "maria@ust-legazpi.edu.ph", Type: models.UserTypeStudent, FirstName: "Maria", LastName: "Santos", IsActive: false}))
	require.NoError(t, users.Create(&models.User{ID: "a1", Email: "admin@ust-legazpi.edu.ph", Type: models.UserTypeAdmin, IsActive: true}))

	students, total, err := users.List(UserFilter{Type: models.UserTypeStudent})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, students, 2)

	active, _, err := users.List(UserFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	found, _, err := users.List(UserFilter{Search: "santos"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u2", found[0].ID)
}

func TestMoodLogOnePerDay(t *testing.T) {
	moods := NewMemory().MoodLogs()
	now := time.Now()

	require.NoError(t, moods.Create(&models.MoodLog{ID: "m1", UserID: "u1", Mood: models.MoodGood, Date: now}))

	// Same user, same calendar day, different clock time.
	err := moods.Create(&models.MoodLog{ID: "m2", UserID: "u1", Mood: models.MoodOkay, Date: now.Add(time.Minute)})
	assert.ErrorIs(t, err, ErrConflict)

	// Another user on the same day is fine.
	require.NoError(t, moods.Create(&models.MoodLog{ID: "m3", UserID: "u2", Mood: models.MoodOkay, Date: now}))

	// Same user on the next day is fine.
	require.NoError(t, moods.Create(&models.MoodLog{ID: "m4", UserID: "u1", Mood: models.MoodOkay, Date: now.AddDate(0, 0, 1)}))
}

func TestCreateIfNoneOpenIsAtomic(t *testing.T) {
	sessions := NewMemory().Sessions()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = sessions.CreateIfNoneOpen(&models.CounselingSession{
				ID:     "s" + string(rune('0'+i)),
				UserID: "u1",
				Status: models.SessionPending,
			})
		}(i)
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ErrConflict)
		}
	}
	assert.Equal(t, 1, created, "exactly one concurrent request may open a session")
}

func TestTransitionGuards(t *testing.T) {
	sessions := NewMemory().Sessions()
	require.NoError(t, sessions.CreateIfNoneOpen(&models.CounselingSession{
		ID: "s1", UserID: "u1", Status: models.SessionPending,
	}))

	err := sessions.Transition("s1", []string{models.SessionPending}, map[string]interface{}{
		"status":       models.SessionActive,
		"counselor_id": "c1",
		"start_time":   time.Now(),
	})
	require.NoError(t, err)

	// The pending->active transition cannot apply twice.
	err = sessions.Transition("s1", []string{models.SessionPending}, map[string]interface{}{
		"status": models.SessionActive,
	})
	assert.ErrorIs(t, err, ErrConflict)

	err = sessions.Transition("missing", []string{models.SessionPending}, map[string]interface{}{
		"status": models.SessionActive,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := sessions.GetOwned("s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, got.Status)
	assert.Equal(t, "c1", got.CounselorID)
	assert.NotNil(t, got.StartTime)
}

func TestAppendMessageStatusGuard(t *testing.T) {
	sessions := NewMemory().Sessions()
	require.NoError(t, sessions.CreateIfNoneOpen(&models.CounselingSession{
		ID: "s1", UserID: "u1", Status: models.SessionActive,
	}))

	msg := models.SessionMessage{Sender: models.SenderUser, Message: "hello", Timestamp: time.Now()}
	require.NoError(t, sessions.AppendMessage("s1", models.SessionActive, &msg))
	assert.NotZero(t, msg.ID)
	assert.Equal(t, "s1", msg.SessionID)

	require.NoError(t, sessions.Transition("s1", []string{models.SessionActive}, map[string]interface{}{
		"status":   models.SessionCompleted,
		"end_time": time.Now(),
	}))

	late := models.SessionMessage{Sender: models.SenderCounselor, Message: "too late", Timestamp: time.Now()}
	assert.ErrorIs(t, sessions.AppendMessage("s1", models.SessionActive, &late), ErrConflict)

	got, err := sessions.GetOwned("s1", "u1")
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Message)
}

func TestBookmarkToggle(t *testing.T) {
	bookmarks := NewMemory().Bookmarks()

	added, total, err := bookmarks.Toggle("u1", "r1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.EqualValues(t, 1, total)

	added, total, err = bookmarks.Toggle("u1", "r2")
	require.NoError(t, err)
	assert.True(t, added)
	assert.EqualValues(t, 2, total)

	ids, err := bookmarks.List("u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids)

	added, total, err = bookmarks.Toggle("u1", "r1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.EqualValues(t, 1, total)
}

func TestStrugglingSinceAggregates(t *testing.T) {
	moods := NewMemory().MoodLogs()
	now := time.Now()

	require.NoError(t, moods.Create(&models.MoodLog{ID: "m1", UserID: "u1", Mood: models.MoodStruggling, Date: now.AddDate(0, 0, -2)}))
	require.NoError(t, moods.Create(&models.MoodLog{ID: "m2", UserID: "u1", Mood: models.MoodDifficult, Date: now.AddDate(0, 0, -1)}))
	require.NoError(t, moods.Create(&models.MoodLog{ID: "m3", UserID: "u2", Mood: models.MoodGood, Date: now}))

	struggling, err := moods.StrugglingSince(now.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, struggling, 1)
	assert.Equal(t, "u1", struggling[0].UserID)
	assert.EqualValues(t, 2, struggling[0].Count)
	assert.Equal(t, models.MoodDifficult, struggling[0].LatestMood)
}

func TestDailyAveragesSince(t *testing.T) {
	moods := NewMemory().MoodLogs()
	day := time.Now().AddDate(0, 0, -1)

	require.NoError(t, moods.Create(&models.MoodLog{ID: "m1", UserID: "u1", Mood: models.MoodExcellent, Date: day}))
	require.NoError(t, moods.Create(&models.MoodLog{ID: "m2", UserID: "u2", Mood: models.MoodStruggling, Date: day.Add(time.Hour)}))

	points, err := moods.DailyAveragesSince(day.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.EqualValues(t, 2, points[0].Count)
	assert.InDelta(t, 3.0, points[0].AverageScore, 0.001)
}
