package ledger

import (
	"context"
	"errors"
	"testing"

	"qipai-scores/internal/store"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ApplyDelta(ctx context.Context, playerID, delta int64, gameID *int64) (*store.Transaction, error) {
	args := m.Called(ctx, playerID, delta, gameID)
	tx, _ := args.Get(0).(*store.Transaction)
	return tx, args.Error(1)
}

func (m *mockStore) History(ctx context.Context, playerID int64, limit int) ([]store.Transaction, error) {
	args := m.Called(ctx, playerID, limit)
	txs, _ := args.Get(0).([]store.Transaction)
	return txs, args.Error(1)
}

func (m *mockStore) GetBalance(ctx context.Context, playerID int64) (*store.Balance, error) {
	args := m.Called(ctx, playerID)
	b, _ := args.Get(0).(*store.Balance)
	return b, args.Error(1)
}

func (m *mockStore) Transfer(ctx context.Context, fromID, toID, points int64, gameID *int64) (*store.Transfer, error) {
	args := m.Called(ctx, fromID, toID, points, gameID)
	tr, _ := args.Get(0).(*store.Transfer)
	return tr, args.Error(1)
}

func TestAwardAndDeductSigns(t *testing.T) {
	ctx := context.Background()
	gameID := int64(9)
	st := &mockStore{}
	st.On("ApplyDelta", ctx, int64(1), int64(25), &gameID).
		Return(&store.Transaction{ID: "a", PlayerID: 1, PointsChange: 25, CurrentTotal: 125}, nil).Once()
	st.On("ApplyDelta", ctx, int64(1), int64(-40), (*int64)(nil)).
		Return(&store.Transaction{ID: "b", PlayerID: 1, PointsChange: -40, CurrentTotal: 85}, nil).Once()

	l := New(st)
	tx, err := l.Award(ctx, 1, 25, &gameID, "win")
	require.NoError(t, err)
	require.Equal(t, int64(125), tx.CurrentTotal)

	tx, err = l.Deduct(ctx, 1, 40, nil, "penalty")
	require.NoError(t, err)
	require.Equal(t, int64(85), tx.CurrentTotal)
	st.AssertExpectations(t)
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	st := &mockStore{}
	l := New(st)
	for _, amount := range []int64{0, -5} {
		_, err := l.Award(context.Background(), 1, amount, nil, "")
		require.ErrorIs(t, err, ErrInvalidAmount)
		_, err = l.Deduct(context.Background(), 1, amount, nil, "")
		require.ErrorIs(t, err, ErrInvalidAmount)
	}
	st.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyDeltaPassesErrorsThrough(t *testing.T) {
	ctx := context.Background()
	st := &mockStore{}
	wrapped := errors.Join(store.ErrInsufficientBalance, errors.New("balance 10"))
	st.On("ApplyDelta", ctx, int64(2), int64(-50), (*int64)(nil)).Return(nil, wrapped)

	_, err := New(st).ApplyDelta(ctx, 2, -50, nil)
	require.ErrorIs(t, err, store.ErrInsufficientBalance)
}

func TestHistoryAndBalanceDelegate(t *testing.T) {
	ctx := context.Background()
	st := &mockStore{}
	st.On("History", ctx, int64(3), 50).Return([]store.Transaction{{ID: "x"}}, nil)
	st.On("GetBalance", ctx, int64(3)).Return(&store.Balance{PlayerID: 3, CurrentTotal: 7}, nil)

	l := New(st)
	txs, err := l.History(ctx, 3, 50)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	bal, err := l.Balance(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(7), bal.CurrentTotal)
}

func TestTransferDelegatesAndValidates(t *testing.T) {
	ctx := context.Background()
	gameID := int64(4)
	st := &mockStore{}
	st.On("Transfer", ctx, int64(1), int64(2), int64(15), &gameID).Return(&store.Transfer{
		From: store.Transaction{ID: "d", PlayerID: 1, PointsChange: -15},
		To:   store.Transaction{ID: "c", PlayerID: 2, PointsChange: 15},
	}, nil).Once()
	st.On("Transfer", ctx, int64(1), int64(2), int64(500), (*int64)(nil)).Return(nil, store.ErrInsufficientBalance).Once()

	l := New(st)
	tr, err := l.Transfer(ctx, 1, 2, 15, &gameID, "settle")
	require.NoError(t, err)
	require.Equal(t, "d", tr.From.ID)

	_, err = l.Transfer(ctx, 1, 2, 500, nil, "")
	require.ErrorIs(t, err, store.ErrInsufficientBalance)

	_, err = l.Transfer(ctx, 1, 2, 0, nil, "")
	require.ErrorIs(t, err, ErrInvalidAmount)
	st.AssertExpectations(t)
}
