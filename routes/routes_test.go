package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zjkm666/ust-legazpi-mhs/config"
	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/services"
	"github.com/zjkm666/ust-legazpi-mhs/store"
	"github.com/zjkm666/ust-legazpi-mhs/utils"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}

	conf, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	mem := store.NewMemory()
	sched := services.NewTimerScheduler()
	t.Cleanup(sched.Stop)

	counseling := services.NewCounselingService(mem.Sessions(), mem.Users(), sched,
		services.NewCrisisDetector(conf.CrisisKeywordList()), services.CounselingOptions{
			MatchDelay:    5 * time.Millisecond,
			ReplyMinDelay: 5 * time.Millisecond,
			ReplyMaxDelay: 15 * time.Millisecond,
		})

	r := gin.New()
	RegisterRoutes(r, Dependencies{
		Config:     conf,
		Users:      mem.Users(),
		Moods:      mem.MoodLogs(),
		Sessions:   mem.Sessions(),
		Bookmarks:  mem.Bookmarks(),
		MoodSvc:    services.NewMoodService(mem.MoodLogs(), mem.Users(), nil),
		Counseling: counseling,
		Catalog:    services.NewResourceCatalog(),
	})
	return r, mem
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerStudent(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     "juan.delacruz@ust-legazpi.edu.ph",
		"password":  "sekret123",
		"firstName": "Juan",
		"lastName":  "Dela Cruz",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestPing(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterRejectsOutsideDomain(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     "someone@gmail.com",
		"password":  "sekret123",
		"firstName": "Some",
		"lastName":  "One",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterLoginAndLogMood(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerStudent(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "juan.delacruz@ust-legazpi.edu.ph",
		"password": "sekret123",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/mood/log", token, gin.H{
		"mood":  "good",
		"notes": "ready for finals",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The same day again is a conflict.
	w = doJSON(t, r, http.MethodPost, "/api/mood/log", token, gin.H{"mood": "okay"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/mood/history", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/mood/log", "garbage-token", gin.H{"mood": "good"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStudentCannotReachAdminRoutes(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerStudent(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/admin/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAnonymousResourceBrowsing(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/resources", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/resources/crisis-contacts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/resources/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookmarkToggleRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerStudent(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/resources/ust-legazpi-ogt/bookmark", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/resources/bookmarks/list", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Count)
}

func TestCounselingFlowOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerStudent(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/counseling/request", token, gin.H{
		"category": "Academic Stress",
		"urgency":  "medium",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			Session struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"session"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Data.Session.Status)

	require.Eventually(t, func() bool {
		w := doJSON(t, r, http.MethodGet, "/api/counseling/current", token, nil)
		var current struct {
			Data struct {
				Session *struct {
					Status string `json:"status"`
				} `json:"session"`
			} `json:"data"`
		}
		if json.Unmarshal(w.Body.Bytes(), &current) != nil {
			return false
		}
		return current.Data.Session != nil && current.Data.Session.Status == "active"
	}, time.Second, 5*time.Millisecond)

	w = doJSON(t, r, http.MethodPost, "/api/counseling/sessions/"+created.Data.Session.ID+"/end", token, gin.H{
		"rating":   4,
		"feedback": "very helpful",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestListingsSurviveBadPagingParams(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerStudent(t, r)

	paths := []string{
		"/api/mood/history?limit=0",
		"/api/mood/history?limit=abc&page=-1",
		"/api/counseling/sessions?limit=0",
		"/api/counseling/sessions?limit=abc&page=0",
	}
	for _, path := range paths {
		w := doJSON(t, r, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusOK, w.Code, "%s: %s", path, w.Body.String())

		var resp struct {
			Data struct {
				Pagination struct {
					Page  int `json:"page"`
					Limit int `json:"limit"`
				} `json:"pagination"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.GreaterOrEqual(t, resp.Data.Pagination.Page, 1, path)
		assert.GreaterOrEqual(t, resp.Data.Pagination.Limit, 1, path)
	}
}

func seedAdmin(t *testing.T, mem *store.Memory, id string) string {
	t.Helper()
	require.NoError(t, mem.Users().Create(&models.User{
		ID:       id,
		Email:    id + "@ust-legazpi.edu.ph",
		Type:     models.UserTypeAdmin,
		IsActive: true,
	}))
	token, err := utils.GenerateToken(id, models.UserTypeAdmin)
	require.NoError(t, err)
	return token
}

func TestAdminStatsCountTodaysMoodLogs(t *testing.T) {
	r, mem := newTestRouter(t)
	token := seedAdmin(t, mem, "admin-1")

	require.NoError(t, mem.Users().Create(&models.User{
		ID: "student-9", Email: "night.owl@ust-legazpi.edu.ph",
		Type: models.UserTypeStudent, IsActive: true,
	}))
	// An entry shortly after local midnight still belongs to today.
	now := time.Now()
	require.NoError(t, mem.MoodLogs().Create(&models.MoodLog{
		ID:     utils.GenerateID(),
		UserID: "student-9",
		Mood:   models.MoodGood,
		Date:   time.Date(now.Year(), now.Month(), now.Day(), 0, 1, 0, 0, now.Location()),
	}))

	w := doJSON(t, r, http.MethodGet, "/api/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Stats struct {
				TodayMoodLogs int64 `json:"todayMoodLogs"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Data.Stats.TodayMoodLogs)
}

func TestAdminCannotDeactivateAdminAccounts(t *testing.T) {
	r, mem := newTestRouter(t)
	token := seedAdmin(t, mem, "admin-1")
	seedAdmin(t, mem, "admin-2")
	registerStudent(t, r)

	w := doJSON(t, r, http.MethodPut, "/api/admin/users/admin-2/deactivate", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/api/admin/users/admin-1/deactivate", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	users, _, err := mem.Users().List(store.UserFilter{Type: models.UserTypeStudent})
	require.NoError(t, err)
	require.Len(t, users, 1)

	w = doJSON(t, r, http.MethodPut, "/api/admin/users/"+users[0].ID+"/deactivate", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/api/admin/users/"+users[0].ID+"/reactivate", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
