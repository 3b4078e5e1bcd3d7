package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/store"
)

func newTestCounseling(t *testing.T) (*CounselingService, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.Users().Create(&models.User{
		ID:       "student-1",
		Email:    "juan@ust-legazpi.edu.ph",
		Type:     models.UserTypeStudent,
		IsActive: true,
	}))

	sched := NewTimerScheduler()
	t.Cleanup(sched.Stop)

	svc := NewCounselingService(mem.Sessions(), mem.Users(), sched, nil, CounselingOptions{
		MatchDelay:    10 * time.Millisecond,
		ReplyMinDelay: 5 * time.Millisecond,
		ReplyMaxDelay: 15 * time.Millisecond,
		SupportDelay:  5 * time.Millisecond,
	})
	return svc, mem
}

func activeSession(t *testing.T, svc *CounselingService) *models.CounselingSession {
	t.Helper()
	session, err := svc.Request("student-1", "Academic Stress", "medium")
	require.NoError(t, err)
	require.Equal(t, models.SessionPending, session.Status)

	require.Eventually(t, func() bool {
		s, err := svc.CurrentSession("student-1")
		return err == nil && s != nil && s.Status == models.SessionActive
	}, time.Second, 2*time.Millisecond, "match never fired")

	matched, err := svc.CurrentSession("student-1")
	require.NoError(t, err)
	return matched
}

func TestRequestValidation(t *testing.T) {
	svc, _ := newTestCounseling(t)

	_, err := svc.Request("student-1", "Palm Reading", "medium")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Request("student-1", "Academic Stress", "catastrophic")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestRequestMatchesAfterDelay(t *testing.T) {
	svc, _ := newTestCounseling(t)

	session := activeSession(t, svc)
	assert.Equal(t, "peer-counselor-001", session.CounselorID)
	assert.NotNil(t, session.StartTime)
}

func TestSecondOpenSessionRejected(t *testing.T) {
	svc, _ := newTestCounseling(t)

	_, err := svc.Request("student-1", "Academic Stress", "medium")
	require.NoError(t, err)

	_, err = svc.Request("student-1", "Social Anxiety", "high")
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestCancelBeforeMatchBeatsTheTimer(t *testing.T) {
	svc, _ := newTestCounseling(t)

	session, err := svc.Request("student-1", "Social Anxiety", "high")
	require.NoError(t, err)

	cancelled, err := svc.CancelSession(session.ID, "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.EndTime)

	// Let the match delay elapse; the stale timer must not resurrect the
	// session.
	time.Sleep(30 * time.Millisecond)
	after, err := svc.sessions.GetOwned(session.ID, "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, after.Status)
	assert.Empty(t, after.CounselorID)
}

func TestSendMessageOnPendingSession(t *testing.T) {
	svc, _ := newTestCounseling(t)

	session, err := svc.Request("student-1", "Social Anxiety", "low")
	require.NoError(t, err)

	_, err = svc.SendMessage(session.ID, "student-1", models.SenderUser, "hello?")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestSendMessageValidation(t *testing.T) {
	svc, _ := newTestCounseling(t)
	session := activeSession(t, svc)

	_, err := svc.SendMessage(session.ID, "student-1", "intruder", "hi")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.SendMessage(session.ID, "student-1", models.SenderUser, "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSendMessageGetsSimulatedReply(t *testing.T) {
	svc, _ := newTestCounseling(t)
	session := activeSession(t, svc)

	result, err := svc.SendMessage(session.ID, "student-1", models.SenderUser, "I failed my exam and I feel awful")
	require.NoError(t, err)
	assert.False(t, result.CrisisDetected)
	assert.Equal(t, models.SenderUser, result.Message.Sender)

	require.Eventually(t, func() bool {
		s, err := svc.sessions.GetOwned(session.ID, "student-1")
		if err != nil {
			return false
		}
		for _, m := range s.Messages {
			if m.Sender == models.SenderCounselor {
				return true
			}
		}
		return false
	}, time.Second, 2*time.Millisecond, "counselor reply never arrived")
}

func TestCrisisMessageFlaggedAndFollowedUp(t *testing.T) {
	svc, _ := newTestCounseling(t)
	session := activeSession(t, svc)

	result, err := svc.SendMessage(session.ID, "student-1", models.SenderUser, "sometimes I want to hurt myself")
	require.NoError(t, err)
	assert.True(t, result.CrisisDetected)

	require.Eventually(t, func() bool {
		s, err := svc.sessions.GetOwned(session.ID, "student-1")
		if err != nil {
			return false
		}
		for _, m := range s.Messages {
			if m.Sender == models.SenderCounselor && m.Message == crisisSupportPrompt {
				return true
			}
		}
		return false
	}, time.Second, 2*time.Millisecond, "crisis support prompt never arrived")
}

func TestEndSession(t *testing.T) {
	svc, mem := newTestCounseling(t)
	session := activeSession(t, svc)

	rating := 6
	_, err := svc.EndSession(session.ID, "student-1", &rating, "")
	assert.Equal(t, KindValidation, KindOf(err))

	rating = 4
	ended, err := svc.EndSession(session.ID, "student-1", &rating, "very helpful")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, ended.Status)
	require.NotNil(t, ended.Rating)
	assert.Equal(t, 4, *ended.Rating)
	assert.Equal(t, "very helpful", ended.Feedback)
	assert.NotNil(t, ended.EndTime)

	user, err := mem.Users().GetByID("student-1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.CounselingSessions)
}

func TestEndSessionRequiresActive(t *testing.T) {
	svc, _ := newTestCounseling(t)

	session, err := svc.Request("student-1", "Social Anxiety", "low")
	require.NoError(t, err)

	_, err = svc.EndSession(session.ID, "student-1", nil, "")
	assert.Equal(t, KindState, KindOf(err))

	_, err = svc.EndSession("no-such-session", "student-1", nil, "")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCancelIsIdempotentlyRejectedWhenClosed(t *testing.T) {
	svc, _ := newTestCounseling(t)
	session := activeSession(t, svc)

	_, err := svc.EndSession(session.ID, "student-1", nil, "")
	require.NoError(t, err)

	_, err = svc.CancelSession(session.ID, "student-1")
	assert.Equal(t, KindState, KindOf(err))
}

func TestSessionsAreOwnerScoped(t *testing.T) {
	svc, mem := newTestCounseling(t)
	require.NoError(t, mem.Users().Create(&models.User{
		ID:       "student-2",
		Email:    "maria@ust-legazpi.edu.ph",
		Type:     models.UserTypeStudent,
		IsActive: true,
	}))
	session := activeSession(t, svc)

	_, err := svc.SendMessage(session.ID, "student-2", models.SenderUser, "hi")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.CancelSession(session.ID, "student-2")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCurrentSessionNilWhenNoneOpen(t *testing.T) {
	svc, _ := newTestCounseling(t)

	session, err := svc.CurrentSession("student-1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestListSessionsPaginates(t *testing.T) {
	svc, _ := newTestCounseling(t)

	for i := 0; i < 3; i++ {
		session := activeSession(t, svc)
		_, err := svc.EndSession(session.ID, "student-1", nil, "")
		require.NoError(t, err)
	}

	sessions, total, err := svc.ListSessions("student-1", "", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, sessions, 2)

	completed, total, err := svc.ListSessions("student-1", models.SessionCompleted, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, completed, 3)
}

// TestSingleOpenSessionUnderRandomLifecycle drives the lifecycle with a
// seeded mix of request, cancel and end calls while the match timers fire
// in the background, and checks after every step that the student never
// holds more than one pending or active session.
func TestSingleOpenSessionUnderRandomLifecycle(t *testing.T) {
	svc, mem := newTestCounseling(t)
	rng := rand.New(rand.NewSource(42))

	openCount := func() int {
		sessions, _, err := mem.Sessions().List(store.SessionFilter{UserID: "student-1"})
		require.NoError(t, err)
		n := 0
		for i := range sessions {
			if sessions[i].IsOpen() {
				n++
			}
		}
		return n
	}

	for i := 0; i < 200; i++ {
		switch rng.Intn(4) {
		case 0:
			_, err := svc.Request("student-1", "Academic Stress", "medium")
			if err != nil {
				require.Equal(t, KindConflict, KindOf(err))
			}
		case 1:
			if current, err := svc.CurrentSession("student-1"); err == nil && current != nil {
				if _, err := svc.CancelSession(current.ID, "student-1"); err != nil {
					require.Contains(t, []ErrorKind{KindState, KindNotFound}, KindOf(err))
				}
			}
		case 2:
			if current, err := svc.CurrentSession("student-1"); err == nil && current != nil {
				if _, err := svc.EndSession(current.ID, "student-1", nil, ""); err != nil {
					require.Contains(t, []ErrorKind{KindState, KindNotFound}, KindOf(err))
				}
			}
		case 3:
			time.Sleep(time.Duration(rng.Intn(5)) * time.Millisecond)
		}
		require.LessOrEqual(t, openCount(), 1, "step %d", i)
	}
}
