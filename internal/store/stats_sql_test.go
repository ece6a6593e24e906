package store

import (
	"testing"
	"time"
)

func TestLeaderboardOrdersByTotalThenPlayer(t *testing.T) {
	st, ctx := openStore(t)
	a := mustCreatePlayer(t, st, ctx, "a", 300)
	b := mustCreatePlayer(t, st, ctx, "b", 500)
	c := mustCreatePlayer(t, st, ctx, "c", 300)
	mustCreatePlayer(t, st, ctx, "no-balance", 0)

	rows, err := st.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	want := []int64{b, a, c}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, id := range want {
		if rows[i].PlayerID != id {
			t.Fatalf("row %d = player %d, want %d", i, rows[i].PlayerID, id)
		}
	}

	top, err := st.Leaderboard(ctx, 1)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 1 || top[0].CurrentTotal != 500 {
		t.Fatalf("top = %+v", top)
	}
}

func TestPlayerGameStats(t *testing.T) {
	st, ctx := openStore(t)
	a := mustCreatePlayer(t, st, ctx, "stats", 0)

	g1, _, err := st.StartGame(ctx, "mahjong", []NewParticipant{{PlayerID: a, InitialScore: 100}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	g2, _, err := st.StartGame(ctx, "mahjong", []NewParticipant{{PlayerID: a, InitialScore: 100}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := st.StartGame(ctx, "mahjong", []NewParticipant{{PlayerID: a}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := st.EndGame(ctx, g1.ID, map[int64]int64{a: 30}); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := st.EndGame(ctx, g2.ID, map[int64]int64{a: -10}); err != nil {
		t.Fatalf("end: %v", err)
	}

	stats, err := st.PlayerGameStats(ctx, a)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalGames != 3 || stats.CompletedGames != 2 {
		t.Fatalf("games = %d/%d, want 3/2", stats.TotalGames, stats.CompletedGames)
	}
	if stats.AvgScoreChange == nil || *stats.AvgScoreChange != 10 {
		t.Fatalf("avg = %v, want 10", stats.AvgScoreChange)
	}

	empty, err := st.PlayerGameStats(ctx, a+100)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if empty.TotalGames != 0 || empty.AvgScoreChange != nil {
		t.Fatalf("unexpected empty stats: %+v", empty)
	}
}

func TestDailyChangesAndScoreHistory(t *testing.T) {
	st, ctx := openStore(t)
	a := mustCreatePlayer(t, st, ctx, "daily-a", 0)
	b := mustCreatePlayer(t, st, ctx, "daily-b", 0)
	game, err := st.CreateGame(ctx, "poker")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	for _, step := range []struct {
		player int64
		delta  int64
		game   *int64
	}{
		{a, 100, nil},
		{a, -40, &game.ID},
		{b, 80, &game.ID},
	} {
		if _, err := st.ApplyDelta(ctx, step.player, step.delta, step.game); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	var today time.Time
	if err := st.Pool.QueryRow(ctx, `SELECT date_trunc('day', now())`).Scan(&today); err != nil {
		t.Fatalf("today: %v", err)
	}
	daily, err := st.DailyChanges(ctx, today)
	if err != nil {
		t.Fatalf("daily changes: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("daily rows = %d, want 2", len(daily))
	}
	if daily[0].PlayerID != b || daily[0].DailyChange != 80 {
		t.Fatalf("first daily row = %+v", daily[0])
	}
	if daily[1].PlayerID != a || daily[1].DailyChange != 60 || daily[1].CurrentTotal != 60 {
		t.Fatalf("second daily row = %+v", daily[1])
	}

	yesterday, err := st.DailyChanges(ctx, today.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("daily changes: %v", err)
	}
	if len(yesterday) != 0 {
		t.Fatalf("yesterday rows = %d, want 0", len(yesterday))
	}

	history, err := st.ScoreHistory(ctx, a, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("score history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history rows = %d, want 2", len(history))
	}
	if history[0].GameType != "poker" || history[0].PointsChange != -40 {
		t.Fatalf("newest history row = %+v", history[0])
	}
	if history[1].GameType != "" || history[1].GameID != nil {
		t.Fatalf("oldest history row should have no game: %+v", history[1])
	}
}

func TestGameTypeStats(t *testing.T) {
	st, ctx := openStore(t)
	g, err := st.CreateGame(ctx, "mahjong")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := st.CreateGame(ctx, "mahjong"); err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := st.CreateGame(ctx, "bridge"); err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := st.EndGame(ctx, g.ID, nil); err != nil {
		t.Fatalf("end game: %v", err)
	}

	stats, err := st.GameTypeStats(ctx)
	if err != nil {
		t.Fatalf("game type stats: %v", err)
	}
	if len(stats) != 2 || stats[0].GameType != "bridge" || stats[1].GameType != "mahjong" {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[1].TotalGames != 2 || stats[1].CompletedGames != 1 || stats[1].AvgDurationMinutes == nil {
		t.Fatalf("mahjong stats = %+v", stats[1])
	}
	if stats[0].AvgDurationMinutes != nil {
		t.Fatalf("bridge has no finished games, avg = %v", *stats[0].AvgDurationMinutes)
	}
}
