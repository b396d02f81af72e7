package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUnitOfWork struct {
	beginErr   error
	commitErr  error
	begun      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if u.beginErr != nil {
		return nil, u.beginErr
	}
	u.begun = true
	return ctx, nil
}

func (u *fakeUnitOfWork) Commit(ctx context.Context) error {
	u.committed = true
	return u.commitErr
}

func (u *fakeUnitOfWork) Rollback(ctx context.Context) error {
	u.rolledBack = true
	return nil
}

func TestWithUnitOfWorkCommitsOnSuccess(t *testing.T) {
	uow := &fakeUnitOfWork{}

	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
}

func TestWithUnitOfWorkRollsBackOnError(t *testing.T) {
	uow := &fakeUnitOfWork{}
	boom := errors.New("boom")

	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}

func TestWithUnitOfWorkPropagatesBeginError(t *testing.T) {
	uow := &fakeUnitOfWork{beginErr: errors.New("no connection")}

	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		t.Fatal("fn should not run when begin fails")
		return nil
	})

	require.Error(t, err)
}
