package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/repository/hasura"
)

// mockRepository implements hasura.Repository in memory for testing
type mockRepository struct {
	profiles []domain.Profile
	password map[string]string
	tasks    map[string]*domain.Task
	logs     []*domain.TimeLog
	nextID   int
	calls    []string
	lastSet  domain.TaskPatch
	err      error
}

var _ hasura.Repository = (*mockRepository)(nil)

func newMockRepository() *mockRepository {
	return &mockRepository{
		password: make(map[string]string),
		tasks:    make(map[string]*domain.Task),
	}
}

func (m *mockRepository) addProfile(name, password string) domain.Profile {
	p := domain.Profile{ID: m.id("user"), Name: name}
	m.profiles = append(m.profiles, p)
	m.password[p.ID] = password
	return p
}

func (m *mockRepository) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockRepository) record(call string) error {
	m.calls = append(m.calls, call)
	return m.err
}

func (m *mockRepository) FindProfile(ctx context.Context, name, password string) (*domain.Profile, error) {
	if err := m.record("FindProfile"); err != nil {
		return nil, err
	}
	for _, p := range m.profiles {
		if p.Name == name && m.password[p.ID] == password {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	if err := m.record("ListTasks"); err != nil {
		return nil, err
	}
	out := []domain.Task{}
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(*out[j].CreatedAt) })
	return out, nil
}

func (m *mockRepository) CreateTask(ctx context.Context, task domain.NewTask) (*domain.Task, error) {
	if err := m.record("CreateTask"); err != nil {
		return nil, err
	}
	created := time.Date(2024, 5, 1, 9, 0, m.nextID, 0, time.UTC)
	t := &domain.Task{
		ID:          m.id("task"),
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      "todo",
		CreatedAt:   &created,
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *mockRepository) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := m.record("UpdateTask"); err != nil {
		return nil, err
	}
	m.lastSet = patch
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	if patch.Title.Set && patch.Title.Value != nil {
		t.Title = *patch.Title.Value
	}
	if patch.Description.Set {
		t.Description = patch.Description.Value
	}
	if patch.Status.Set && patch.Status.Value != nil {
		t.Status = *patch.Status.Value
	}
	return t, nil
}

func (m *mockRepository) DeleteTask(ctx context.Context, id string) (*domain.TaskRef, error) {
	if err := m.record("DeleteTask"); err != nil {
		return nil, err
	}
	if _, ok := m.tasks[id]; !ok {
		return nil, nil
	}
	delete(m.tasks, id)
	return &domain.TaskRef{ID: id}, nil
}

func (m *mockRepository) InsertTimeLog(ctx context.Context, taskID, userID string, start time.Time) (*domain.TimeLog, error) {
	if err := m.record("InsertTimeLog"); err != nil {
		return nil, err
	}
	l := &domain.TimeLog{ID: m.id("log"), TaskID: taskID, UserID: userID, StartTime: start}
	m.logs = append(m.logs, l)
	return l, nil
}

func (m *mockRepository) CloseOpenTimeLogs(ctx context.Context, taskID, userID string, end time.Time) (*domain.MutationResult, error) {
	if err := m.record("CloseOpenTimeLogs"); err != nil {
		return nil, err
	}
	affected := 0
	for _, l := range m.logs {
		if l.TaskID == taskID && l.UserID == userID && l.EndTime == nil {
			closed := end
			l.EndTime = &closed
			affected++
		}
	}
	return &domain.MutationResult{AffectedRows: affected}, nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
