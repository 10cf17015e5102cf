package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/client/client"
	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/timeline"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	client.Client

	memories []models.Memory
	users    []models.User
	err      error

	created []client.NewMemory
	patches map[string]models.MemoryPatch
	deleted []string
	secrets []string
}

func (f *fakeClient) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.memories, nil
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.users, f.err
}

func (f *fakeClient) GetUser(ctx context.Context, id string) (models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, common.ErrorNotFound
}

func (f *fakeClient) CreateMemory(ctx context.Context, userID, secret string, in client.NewMemory) (models.Memory, error) {
	if f.err != nil {
		return models.Memory{}, f.err
	}
	f.created = append(f.created, in)
	f.secrets = append(f.secrets, secret)
	return models.Memory{ID: "new", UserID: userID, Title: in.Title, Date: in.Date, Location: in.Location}, nil
}

func (f *fakeClient) UpdateMemory(ctx context.Context, id, secret string, p models.MemoryPatch) (models.Memory, error) {
	if f.err != nil {
		return models.Memory{}, f.err
	}
	if f.patches == nil {
		f.patches = map[string]models.MemoryPatch{}
	}
	f.patches[id] = p
	for _, m := range f.memories {
		if m.ID == id {
			p.Apply(&m)
			return m, nil
		}
	}
	return models.Memory{}, common.ErrorNotFound
}

func (f *fakeClient) DeleteMemory(ctx context.Context, id, secret string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

var refNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testPipeline() *timeline.Pipeline {
	return timeline.New(timeline.WithClock(func() time.Time { return refNow }), timeline.WithLocation(time.UTC))
}

func sample() []models.Memory {
	return []models.Memory{
		{ID: "a", UserID: "u1", Title: "Spring", Date: "2024-03-01"},
		{ID: "b", UserID: "u1", Title: "Winter", Date: "2023-12-24"},
		{ID: "c", UserID: "u1", Title: "Summer", Date: "2024-07-10"},
		{ID: "d", UserID: "u1", Title: "Old", Date: "2021-05-05"},
	}
}

func ids(groups []timeline.YearGroup) [][]string {
	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := make([]string, 0, len(g.Memories))
		for _, m := range g.Memories {
			row = append(row, m.ID)
		}
		out = append(out, row)
	}
	return out
}

func loaded(t *testing.T, fc *fakeClient) MemoryService {
	t.Helper()
	s := NewMemoryService(fc, testPipeline())
	require.NoError(t, s.Refresh(context.Background(), "u1"))
	return s
}

func TestRefreshAndView(t *testing.T) {
	fc := &fakeClient{memories: sample()}
	s := NewMemoryService(fc, testPipeline())
	assert.False(t, s.Loaded())

	require.NoError(t, s.Refresh(context.Background(), "u1"))
	assert.True(t, s.Loaded())

	v := s.View(viewstate.Default())
	assert.Equal(t, [][]string{{"c", "a"}, {"b"}, {"d"}}, ids(v.Groups))
	assert.Equal(t, 4, v.Count)
	assert.Equal(t, 4, v.Total)

	v = s.View(viewstate.ViewState{Filter: viewstate.FilterThisYear, Sort: viewstate.SortOldest})
	assert.Equal(t, [][]string{{"a", "c"}}, ids(v.Groups))
	assert.Equal(t, 2, v.Count)
	assert.Equal(t, 4, v.Total)
}

func TestRefresh_ErrorKeepsPreviousList(t *testing.T) {
	fc := &fakeClient{memories: sample()}
	s := loaded(t, fc)

	fc.err = errors.New("offline")
	require.Error(t, s.Refresh(context.Background(), "u1"))
	assert.Equal(t, 4, s.View(viewstate.Default()).Total)
}

func TestCreate_AddsToLoadedList(t *testing.T) {
	fc := &fakeClient{memories: sample()}
	s := loaded(t, fc)

	m, err := s.Create(context.Background(), "u1", "letmein", client.NewMemory{Title: "Lake", Date: "2022-08-01"})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", m.Location)
	assert.Equal(t, []string{"letmein"}, fc.secrets)

	v := s.View(viewstate.Default())
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, [][]string{{"c", "a"}, {"b"}, {"new"}, {"d"}}, ids(v.Groups))
}

func TestCreate_OtherUserNotAdded(t *testing.T) {
	fc := &fakeClient{memories: sample()}
	s := loaded(t, fc)

	_, err := s.Create(context.Background(), "u2", "s", client.NewMemory{Title: "Lake", Date: "2022-08-01"})
	require.NoError(t, err)
	assert.Equal(t, 4, s.View(viewstate.Default()).Total)
}

func TestCreate_ErrorLeavesListUntouched(t *testing.T) {
	fc := &fakeClient{memories: sample()}
	s := loaded(t, fc)

	fc.err = common.ErrorUnauthorized
	_, err := s.Create(context.Background(), "u1", "wrong", client.NewMemory{Title: "Lake"})
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, 4, s.View(viewstate.Default()).Total)
}

func TestUpdate_ReplacesLocalRecord(t *testing.T) {
	fc := &fakeClient{memories: sample()}
	s := loaded(t, fc)

	date := "2020-01-01"
	_, err := s.Update(context.Background(), "a", "s", models.MemoryPatch{Date: &date})
	require.NoError(t, err)

	got, ok := s.Find("a")
	require.True(t, ok)
	assert.Equal(t, "2020-01-01", got.Date)

	v := s.View(viewstate.ViewState{Filter: viewstate.FilterAll, Sort: viewstate.SortOldest})
	assert.Equal(t, [][]string{{"a"}, {"d"}, {"b"}, {"c"}}, ids(v.Groups))
}

func TestDelete_RemovesLocalRecord(t *testing.T) {
	fc := &fakeClient{memories: sample()}
	s := loaded(t, fc)

	require.NoError(t, s.Delete(context.Background(), "b", "s"))
	assert.Equal(t, []string{"b"}, fc.deleted)

	_, ok := s.Find("b")
	assert.False(t, ok)
	assert.Len(t, fc.memories, 4)
}

func TestDelete_ErrorKeepsRecord(t *testing.T) {
	fc := &fakeClient{memories: sample()}
	s := loaded(t, fc)

	fc.err = common.ErrorNotFound
	require.ErrorIs(t, s.Delete(context.Background(), "b", "s"), common.ErrorNotFound)

	_, ok := s.Find("b")
	assert.True(t, ok)
}

func TestUserService(t *testing.T) {
	fc := &fakeClient{users: []models.User{{ID: "u1", Name: "Alice"}}}
	us := NewUserService(fc)

	list, err := us.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	u, err := us.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = us.Get(context.Background(), "zz")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
