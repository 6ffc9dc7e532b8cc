package usersvc

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
	userrepo "github.com/ZeyadHassan41/LibraryCapstoneProject/repository/user"
)

type mockRepo struct {
	byIDFn   func(ctx context.Context, id int64) (*model.User, error)
	listFn   func(ctx context.Context) ([]model.User, error)
	updateFn func(ctx context.Context, u *model.User) error
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return m.byIDFn(ctx, id)
}
func (m *mockRepo) List(ctx context.Context) ([]model.User, error) { return m.listFn(ctx) }
func (m *mockRepo) Update(ctx context.Context, u *model.User) error {
	return m.updateFn(ctx, u)
}

var (
	admin   = model.Identity{UserID: 1, Role: model.RoleAdmin}
	someone = model.Identity{UserID: 7, Role: model.RoleUser}
)

func userRecord(id int64) *model.User {
	return &model.User{ID: id, Username: "u", Email: "u@example.com", Role: model.RoleUser, IsActive: true}
}

func TestGet_SelfAllowed(t *testing.T) {
	m := &mockRepo{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return userRecord(id), nil
	}}
	s := New(m)

	u, err := s.Get(context.Background(), someone, 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
}

func TestGet_OtherForbidden(t *testing.T) {
	s := New(&mockRepo{})

	_, err := s.Get(context.Background(), someone, 8)
	require.Equal(t, ErrForbidden, Code(err))
}

func TestGet_AdminMayReadAnyone(t *testing.T) {
	m := &mockRepo{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return userRecord(id), nil
	}}
	s := New(m)

	u, err := s.Get(context.Background(), admin, 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
}

func TestGet_NotFound(t *testing.T) {
	m := &mockRepo{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return nil, userrepo.ErrNoRows
	}}
	s := New(m)

	_, err := s.Get(context.Background(), admin, 99)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestUpdate_SelfPartial(t *testing.T) {
	var saved *model.User
	m := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return userRecord(id), nil
		},
		updateFn: func(ctx context.Context, u *model.User) error {
			saved = u
			return nil
		},
	}
	s := New(m)

	u, err := s.Update(context.Background(), someone, 7, UpdateReq{Email: "New@Example.com"})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", u.Email)
	// field not in the request stays as stored
	require.Equal(t, "u", u.Username)
	require.NotNil(t, saved)
}

func TestUpdate_OtherForbidden(t *testing.T) {
	s := New(&mockRepo{})

	_, err := s.Update(context.Background(), someone, 8, UpdateReq{Username: "x"})
	require.Equal(t, ErrForbidden, Code(err))
}

func TestUpdate_Duplicate(t *testing.T) {
	m := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return userRecord(id), nil
		},
		updateFn: func(ctx context.Context, u *model.User) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	s := New(m)

	_, err := s.Update(context.Background(), someone, 7, UpdateReq{Username: "taken"})
	require.Equal(t, ErrTaken, Code(err))
}

func TestList_AdminOnly(t *testing.T) {
	m := &mockRepo{listFn: func(ctx context.Context) ([]model.User, error) {
		return []model.User{*userRecord(1), *userRecord(2)}, nil
	}}
	s := New(m)

	rows, err := s.List(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = s.List(context.Background(), someone)
	require.Equal(t, ErrForbidden, Code(err))
}
