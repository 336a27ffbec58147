package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/neuroexec/execute/internal/api"
	"github.com/neuroexec/execute/internal/assist"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/internal/repository"
	"github.com/neuroexec/execute/internal/service"
	"github.com/neuroexec/execute/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

type assistMock struct {
	down  bool
	steps []string
}

func (am *assistMock) fail() error {
	return errors.Join(errorvalues.ErrAssistUnavailable, errors.New("endpoint down"))
}

func (am *assistMock) Categorize(ctx context.Context, tasks []assist.TaskRef) ([]assist.Categorization, error) {
	if am.down {
		return nil, am.fail()
	}
	result := make([]assist.Categorization, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, assist.Categorization{
			ID:       task.ID,
			Priority: entity.PriorityQ1,
			Energy:   entity.EnergyHigh,
		})
	}
	return result, nil
}

func (am *assistMock) Decompose(ctx context.Context, taskText string) ([]string, error) {
	if am.down {
		return nil, am.fail()
	}
	return am.steps, nil
}

func (am *assistMock) Rescue(ctx context.Context, taskText, obstacle string) (*entity.PanicSolution, error) {
	if am.down {
		return nil, am.fail()
	}
	return &entity.PanicSolution{
		Diagnosis:     "analysis paralysis",
		Steps:         []string{"shrink the task", "start a 5 minute timer"},
		Encouragement: "keep going",
	}, nil
}

func (am *assistMock) IdentityBoost(ctx context.Context, taskText string) (string, error) {
	if am.down {
		return "", am.fail()
	}
	return "you execute with excellence", nil
}

type settingsStoreMock struct {
	values map[string]string
}

func (ssm *settingsStoreMock) Get(ctx context.Context, name string) (string, error) {
	value, ok := ssm.values[name]
	if !ok {
		return "", errorvalues.ErrSettingNotFound
	}
	return value, nil
}

func (ssm *settingsStoreMock) Set(ctx context.Context, name, value string) error {
	ssm.values[name] = value
	return nil
}

type fixture struct {
	handler http.Handler
	gateway *assistMock
	points  *service.PointsService
}

func newFixture() *fixture {
	points := service.NewPointsService()
	gateway := &assistMock{steps: []string{"open the doc", "write one line"}}
	tasksService := service.NewTasksService(repository.NewTasksRepo(), points, gateway)
	trackerService := service.NewTrackerService(repository.NewRecurringRepo(), repository.NewHabitsRepo(), points)
	settingsService := service.NewSettingsService(&settingsStoreMock{values: map[string]string{}})
	serv := api.New(&api.ServicesList{
		TasksService:    tasksService,
		TrackerService:  trackerService,
		ProgressService: points,
		SettingsService: settingsService,
		FocusService:    service.NewFocusService(time.Second),
	})
	return &fixture{
		handler: serv.Handler(),
		gateway: gateway,
		points:  points,
	}
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := sonic.ConfigDefault.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func (f *fixture) createTask(t *testing.T, text string) entity.Task {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/api/v1/tasks", api.CreateTaskRequest{Text: text})
	require.Equal(t, http.StatusCreated, rr.Code)
	return decodeBody[entity.Task](t, rr)
}

func TestCreateTaskHandler(t *testing.T) {
	f := newFixture()
	t.Run("created with defaults", func(t *testing.T) {
		task := f.createTask(t, "write the report")
		assert.Equal(t, entity.PriorityQ2, task.Priority)
		assert.False(t, task.Completed)
	})
	t.Run("blank text is a silent no-op", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/tasks", api.CreateTaskRequest{Text: "   "})
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.Bytes())
	})
	t.Run("malformed date", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/tasks", api.CreateTaskRequest{Text: "x", Date: "not-a-date"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetTasksHandler(t *testing.T) {
	f := newFixture()
	f.createTask(t, "first")
	f.createTask(t, "second")
	rr := f.do(t, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[struct {
		Tasks []entity.Task `json:"tasks"`
	}](t, rr)
	require.Len(t, resp.Tasks, 2)
	assert.Equal(t, "first", resp.Tasks[0].Text)
	assert.Equal(t, "second", resp.Tasks[1].Text)
}

func TestToggleTaskHandler(t *testing.T) {
	f := newFixture()
	task := f.createTask(t, "ship it")
	t.Run("toggled and points awarded", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID.String()+"/toggle", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		toggled := decodeBody[entity.Task](t, rr)
		assert.True(t, toggled.Completed)
		assert.Equal(t, service.PointsTaskCompletion, f.points.Total())
	})
	t.Run("unexist task", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/tasks/1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed/toggle", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
	t.Run("invalid id", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/tasks/not-a-uuid/toggle", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSetPriorityHandler(t *testing.T) {
	f := newFixture()
	task := f.createTask(t, "plan the sprint")
	t.Run("moved", func(t *testing.T) {
		rr := f.do(t, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/priority",
			api.SetPriorityRequest{Priority: "Q1"})
		require.Equal(t, http.StatusOK, rr.Code)
		moved := decodeBody[entity.Task](t, rr)
		assert.Equal(t, entity.PriorityQ1, moved.Priority)
	})
	t.Run("unknown priority", func(t *testing.T) {
		rr := f.do(t, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/priority",
			api.SetPriorityRequest{Priority: "Q7"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMoveTaskHandler(t *testing.T) {
	f := newFixture()
	task := f.createTask(t, "fix the outage")
	rr := f.do(t, http.MethodPost, "/api/v1/matrix/move",
		api.MoveTaskRequest{TaskID: task.ID.String(), Priority: "Q1"})
	require.Equal(t, http.StatusOK, rr.Code)
	moved := decodeBody[entity.Task](t, rr)
	assert.Equal(t, entity.PriorityQ1, moved.Priority)
}

func TestDeleteTaskHandler(t *testing.T) {
	f := newFixture()
	task := f.createTask(t, "old task")
	rr := f.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = f.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDecomposeHandler(t *testing.T) {
	t.Run("subtasks filled", func(t *testing.T) {
		f := newFixture()
		task := f.createTask(t, "write the essay")
		rr := f.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID.String()+"/decompose", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		decomposed := decodeBody[entity.Task](t, rr)
		assert.Equal(t, f.gateway.steps, decomposed.Subtasks)
	})
	t.Run("assist down", func(t *testing.T) {
		f := newFixture()
		f.gateway.down = true
		task := f.createTask(t, "write the essay")
		rr := f.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID.String()+"/decompose", nil)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestCategorizeHandler(t *testing.T) {
	t.Run("quadrants applied", func(t *testing.T) {
		f := newFixture()
		f.createTask(t, "pay the invoice")
		rr := f.do(t, http.MethodPost, "/api/v1/tasks/categorize", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[struct {
			Tasks []entity.Task `json:"tasks"`
		}](t, rr)
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, entity.PriorityQ1, resp.Tasks[0].Priority)
	})
	t.Run("assist down", func(t *testing.T) {
		f := newFixture()
		f.createTask(t, "pay the invoice")
		f.gateway.down = true
		rr := f.do(t, http.MethodPost, "/api/v1/tasks/categorize", nil)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestMatrixHandler(t *testing.T) {
	f := newFixture()
	f.createTask(t, "write the roadmap")
	rr := f.do(t, http.MethodGet, "/api/v1/matrix", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	matrix := decodeBody[service.Matrix](t, rr)
	require.Len(t, matrix.Quadrants, 4)
	assert.Len(t, matrix.Quadrants[entity.PriorityQ2], 1)
}

func TestRecurringHandlers(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodPost, "/api/v1/recurring", api.CreateRecurringRequest{
		Text:      "morning run",
		Frequency: "daily",
		Priority:  "Q2",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	rt := decodeBody[entity.RecurringTask](t, rr)

	t.Run("first check-in awards", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/recurring/"+rt.ID.String()+"/checkin", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[struct {
			Awarded bool `json:"awarded"`
		}](t, rr)
		assert.True(t, resp.Awarded)
		assert.Equal(t, service.PointsCheckIn, f.points.Total())
	})
	t.Run("second check-in is idempotent", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/recurring/"+rt.ID.String()+"/checkin", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[struct {
			Awarded bool `json:"awarded"`
		}](t, rr)
		assert.False(t, resp.Awarded)
		assert.Equal(t, service.PointsCheckIn, f.points.Total())
	})
	t.Run("future date rejected", func(t *testing.T) {
		tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
		rr := f.do(t, http.MethodPost, "/api/v1/recurring/"+rt.ID.String()+"/checkin",
			api.CheckInRequest{Date: tomorrow})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("deleted", func(t *testing.T) {
		rr := f.do(t, http.MethodDelete, "/api/v1/recurring/"+rt.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestHabitsHandlers(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodPost, "/api/v1/habits", api.CreateHabitRequest{
		Text:       "read before bed",
		Anchor:     "after brushing teeth",
		TinyAction: "open the book",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	habit := decodeBody[entity.Habit](t, rr)

	t.Run("repeat grows the streak", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/habits/"+habit.ID.String()+"/repeat", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[struct {
			Habit  entity.Habit `json:"habit"`
			Reward int          `json:"reward"`
		}](t, rr)
		assert.Equal(t, 1, resp.Habit.Streak)
		assert.Equal(t, 25, resp.Reward)
	})
	t.Run("deleted", func(t *testing.T) {
		rr := f.do(t, http.MethodDelete, "/api/v1/habits/"+habit.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		rr = f.do(t, http.MethodPost, "/api/v1/habits/"+habit.ID.String()+"/repeat", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestProgressHandler(t *testing.T) {
	f := newFixture()
	task := f.createTask(t, "deep work")
	rr := f.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/v1/progress", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[struct {
		Points int          `json:"points"`
		Level  entity.Level `json:"level"`
	}](t, rr)
	assert.Equal(t, service.PointsTaskCompletion, resp.Points)
	assert.Equal(t, "Neural Novice", resp.Level.Title)
	assert.Equal(t, 100, resp.Level.Next)
}

func TestBoostHandler(t *testing.T) {
	f := newFixture()
	t.Run("nothing pending", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, "/api/v1/progress/boost", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
	t.Run("boost arrives after completion", func(t *testing.T) {
		task := f.createTask(t, "deep work")
		rr := f.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID.String()+"/toggle", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Eventually(t, func() bool {
			return f.do(t, http.MethodGet, "/api/v1/progress/boost", nil).Code == http.StatusOK
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestRescueHandler(t *testing.T) {
	f := newFixture()
	task := f.createTask(t, "file the taxes")
	t.Run("protocol provided", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/rescue",
			api.RescueRequest{TaskID: task.ID.String(), Obstacle: "I keep postponing it"})
		require.Equal(t, http.StatusOK, rr.Code)
		solution := decodeBody[entity.PanicSolution](t, rr)
		assert.Equal(t, "analysis paralysis", solution.Diagnosis)
	})
	t.Run("blank obstacle", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/rescue",
			api.RescueRequest{TaskID: task.ID.String(), Obstacle: " "})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("assist down", func(t *testing.T) {
		f.gateway.down = true
		rr := f.do(t, http.MethodPost, "/api/v1/rescue",
			api.RescueRequest{TaskID: task.ID.String(), Obstacle: "stuck"})
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestFocusHandlers(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodGet, "/api/v1/focus", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	snap := decodeBody[service.FocusSnapshot](t, rr)
	assert.Equal(t, service.FocusSessionSeconds, snap.RemainingSeconds)
	assert.False(t, snap.Running)

	rr = f.do(t, http.MethodPost, "/api/v1/focus/start", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeBody[service.FocusSnapshot](t, rr).Running)

	rr = f.do(t, http.MethodPost, "/api/v1/focus/pause", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decodeBody[service.FocusSnapshot](t, rr).Running)

	rr = f.do(t, http.MethodPost, "/api/v1/focus/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	snap = decodeBody[service.FocusSnapshot](t, rr)
	assert.Equal(t, service.FocusSessionSeconds, snap.RemainingSeconds)
}

func TestThemeHandlers(t *testing.T) {
	f := newFixture()
	t.Run("defaults to dark", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, "/api/v1/settings/theme", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[struct {
			Theme string `json:"theme"`
		}](t, rr)
		assert.Equal(t, "dark", resp.Theme)
	})
	t.Run("saved and read back", func(t *testing.T) {
		rr := f.do(t, http.MethodPut, "/api/v1/settings/theme", api.SetThemeRequest{Theme: "light"})
		require.Equal(t, http.StatusOK, rr.Code)
		rr = f.do(t, http.MethodGet, "/api/v1/settings/theme", nil)
		resp := decodeBody[struct {
			Theme string `json:"theme"`
		}](t, rr)
		assert.Equal(t, "light", resp.Theme)
	})
	t.Run("unknown theme", func(t *testing.T) {
		rr := f.do(t, http.MethodPut, "/api/v1/settings/theme", api.SetThemeRequest{Theme: "solarized"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture()
	rr := f.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
