package httptransport

import (
	"context"
	"time"

	appgames "qipai-scores/internal/app/games"
	appplayers "qipai-scores/internal/app/players"
	appscores "qipai-scores/internal/app/scores"
	"qipai-scores/internal/store"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakePlayers struct {
	registerErr error
	players     map[int64]*store.Player
}

func (f *fakePlayers) Register(_ context.Context, username string) (*store.Player, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &store.Player{ID: 1, Username: username}, nil
}

func (f *fakePlayers) Get(_ context.Context, playerID int64) (*store.Player, error) {
	if p, ok := f.players[playerID]; ok {
		return p, nil
	}
	return nil, store.ErrPlayerNotFound
}

func (f *fakePlayers) List(_ context.Context, limit, offset int) (*appplayers.ListResponse, error) {
	return &appplayers.ListResponse{Items: []store.Player{}, Limit: limit, Offset: offset}, nil
}

func (f *fakePlayers) Stats(ctx context.Context, playerID int64) (*appplayers.StatsResponse, error) {
	p, err := f.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return &appplayers.StatsResponse{PlayerID: p.ID, Username: p.Username}, nil
}

type fakeGames struct {
	endErr   error
	joinErr  error
	lastJoin appgames.JoinRequest
}

func (f *fakeGames) Start(_ context.Context, req appgames.StartRequest) (*appgames.StartResponse, error) {
	if len(req.PlayerIDs) == 0 {
		return nil, appgames.ErrInvalidRequest
	}
	return &appgames.StartResponse{Game: &store.Game{ID: 3, GameType: req.GameType}}, nil
}

func (f *fakeGames) Get(_ context.Context, gameID int64) (*store.Game, error) {
	return nil, store.ErrGameNotFound
}

func (f *fakeGames) Participants(_ context.Context, gameID int64) (*appgames.ParticipantsResponse, error) {
	return &appgames.ParticipantsResponse{GameID: gameID}, nil
}

func (f *fakeGames) EndWithResults(_ context.Context, gameID int64, results []appgames.Result) (*appgames.EndResponse, error) {
	if f.endErr != nil {
		return nil, f.endErr
	}
	return &appgames.EndResponse{Game: &store.Game{ID: gameID}}, nil
}

func (f *fakeGames) Join(_ context.Context, gameID int64, req appgames.JoinRequest) (*store.Participant, error) {
	f.lastJoin = req
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	return &store.Participant{GameID: gameID, PlayerID: req.PlayerID, Position: req.Position}, nil
}

func (f *fakeGames) Leave(_ context.Context, gameID, playerID int64) (*store.Participant, error) {
	if playerID != 7 {
		return nil, store.ErrNotParticipant
	}
	return &store.Participant{GameID: gameID, PlayerID: playerID}, nil
}

type pointsCall struct {
	method   string
	playerID int64
	amount   int64
	gameID   *int64
}

type fakeScores struct {
	balance     int64
	calls       []pointsCall
	transfers   []appscores.TransferRequest
	transferErr error
	lastDay     time.Time
	lastDays    int
}

func (f *fakeScores) Award(_ context.Context, playerID, amount int64, gameID *int64, _ string) (*store.Transaction, error) {
	f.calls = append(f.calls, pointsCall{"award", playerID, amount, gameID})
	f.balance += amount
	return &store.Transaction{ID: "tx", PlayerID: playerID, PointsChange: amount, CurrentTotal: f.balance}, nil
}

func (f *fakeScores) Deduct(_ context.Context, playerID, amount int64, gameID *int64, _ string) (*store.Transaction, error) {
	f.calls = append(f.calls, pointsCall{"deduct", playerID, amount, gameID})
	if amount > f.balance {
		return nil, store.ErrInsufficientBalance
	}
	f.balance -= amount
	return &store.Transaction{ID: "tx", PlayerID: playerID, PointsChange: -amount, CurrentTotal: f.balance}, nil
}

func (f *fakeScores) Transfer(_ context.Context, req appscores.TransferRequest) (*store.Transfer, error) {
	f.transfers = append(f.transfers, req)
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	return &store.Transfer{
		From:   store.Transaction{PlayerID: req.FromPlayerID, PointsChange: -req.Points},
		To:     store.Transaction{PlayerID: req.ToPlayerID, PointsChange: req.Points},
		GameID: req.GameID,
	}, nil
}

func (f *fakeScores) Transactions(_ context.Context, playerID int64, limit int) (*appscores.TransactionsResponse, error) {
	return &appscores.TransactionsResponse{PlayerID: playerID, Limit: limit}, nil
}

func (f *fakeScores) ScoreHistory(_ context.Context, playerID int64, days int) (*appscores.ScoreHistoryResponse, error) {
	f.lastDays = days
	return &appscores.ScoreHistoryResponse{PlayerID: playerID, Days: days}, nil
}

func (f *fakeScores) Leaderboard(_ context.Context, limit int) (*appscores.LeaderboardResponse, error) {
	return &appscores.LeaderboardResponse{Limit: limit}, nil
}

func (f *fakeScores) DailyChanges(_ context.Context, day time.Time) (*appscores.DailyChangesResponse, error) {
	f.lastDay = day
	return &appscores.DailyChangesResponse{Date: day.Format("2006-01-02")}, nil
}

func (f *fakeScores) GameTypeStats(context.Context) (*appscores.GameTypeStatsResponse, error) {
	return &appscores.GameTypeStatsResponse{}, nil
}
