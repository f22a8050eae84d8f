// File path: internal/gamification/gamification_test.go
package gamification

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/logicforge/logicforge/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamification_test.db")
	st, err := store.OpenWithConfig(store.Config{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st), st
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		xp    int
		level int
		title string
	}{
		{0, 1, "Rookie"},
		{199, 1, "Rookie"},
		{200, 2, "Explorer"},
		{500, 3, "Strategist"},
		{999, 3, "Strategist"},
		{1000, 4, "Architect"},
		{2000, 5, "Master"},
		{4000, 6, "Legend"},
		{7000, 7, "Champion"},
		{10000, 8, "Grandmaster"},
		{250000, 8, "Grandmaster"},
	}
	for _, tc := range cases {
		level, title := LevelFor(tc.xp)
		if level != tc.level || title != tc.title {
			t.Errorf("LevelFor(%d) = %d %q, want %d %q", tc.xp, level, title, tc.level, tc.title)
		}
	}
}

func TestXPToNextLevel(t *testing.T) {
	if got := XPToNextLevel(0); got != 200 {
		t.Fatalf("XPToNextLevel(0) = %d, want 200", got)
	}
	if got := XPToNextLevel(850); got != 150 {
		t.Fatalf("XPToNextLevel(850) = %d, want 150", got)
	}
	if got := XPToNextLevel(10000); got != 0 {
		t.Fatalf("XPToNextLevel(10000) = %d, want 0 at top level", got)
	}
}

func TestAwardKnownAndUnknownActions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Award(ctx, store.DemoUserID, "", "complete_step_1")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if result.Awarded != 100 || result.TotalXP != 100 {
		t.Fatalf("unexpected award: %+v", result)
	}
	if result.Level != 1 || result.LevelTitle != "Rookie" {
		t.Fatalf("unexpected level: %+v", result)
	}

	unknown, err := svc.Award(ctx, store.DemoUserID, "", "made_up_action")
	if err != nil {
		t.Fatalf("award unknown: %v", err)
	}
	if unknown.Awarded != 0 || unknown.TotalXP != 100 {
		t.Fatalf("unknown action should award nothing: %+v", unknown)
	}
}

func TestTouchStreakRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	first, err := svc.TouchStreak(ctx, store.DemoUserID)
	if err != nil {
		t.Fatalf("first touch: %v", err)
	}
	if first.CurrentStreak != 1 || first.LongestStreak != 1 {
		t.Fatalf("first touch should start streak at 1: %+v", first)
	}

	// Same day again: unchanged.
	same, err := svc.TouchStreak(ctx, store.DemoUserID)
	if err != nil {
		t.Fatalf("same-day touch: %v", err)
	}
	if same.CurrentStreak != 1 {
		t.Fatalf("same-day touch must not grow streak: %+v", same)
	}

	// Next day: increments.
	day = day.AddDate(0, 0, 1)
	next, err := svc.TouchStreak(ctx, store.DemoUserID)
	if err != nil {
		t.Fatalf("next-day touch: %v", err)
	}
	if next.CurrentStreak != 2 || next.LongestStreak != 2 {
		t.Fatalf("consecutive day should grow streak: %+v", next)
	}

	// Gap of two days: resets to 1, longest preserved.
	day = day.AddDate(0, 0, 3)
	reset, err := svc.TouchStreak(ctx, store.DemoUserID)
	if err != nil {
		t.Fatalf("gap touch: %v", err)
	}
	if reset.CurrentStreak != 1 || reset.LongestStreak != 2 {
		t.Fatalf("gap should reset streak and keep longest: %+v", reset)
	}
}

func TestTouchStreakSevenDayBonus(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	var last *StreakResult
	var err error
	for i := 0; i < 7; i++ {
		last, err = svc.TouchStreak(ctx, store.DemoUserID)
		if err != nil {
			t.Fatalf("touch day %d: %v", i+1, err)
		}
		day = day.AddDate(0, 0, 1)
	}
	if last.CurrentStreak != 7 {
		t.Fatalf("expected 7-day streak, got %d", last.CurrentStreak)
	}
	if last.StreakBonus != 100 {
		t.Fatalf("expected 100 XP bonus on day 7, got %d", last.StreakBonus)
	}
	total, err := st.TotalXP(ctx, store.DemoUserID)
	if err != nil {
		t.Fatalf("total xp: %v", err)
	}
	if total != 100 {
		t.Fatalf("bonus should land in the ledger, total = %d", total)
	}
}

func TestAwardStepBadgeOnce(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	program, err := st.CreateProgram(ctx, store.DemoUserID, "FLN Pilot", "")
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	badge, earned, err := svc.AwardStepBadge(ctx, store.DemoUserID, program.ID, 1)
	if err != nil {
		t.Fatalf("award badge: %v", err)
	}
	if !earned || badge.StepNumber != 1 {
		t.Fatalf("unexpected badge grant: earned=%v badge=%+v", earned, badge)
	}
	_, earnedAgain, err := svc.AwardStepBadge(ctx, store.DemoUserID, program.ID, 1)
	if err != nil {
		t.Fatalf("re-award badge: %v", err)
	}
	if earnedAgain {
		t.Fatal("duplicate badge grant should be skipped")
	}

	stats, err := svc.UserStats(ctx, store.DemoUserID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.BadgesEarned != 1 {
		t.Fatalf("expected 1 badge in stats, got %d", stats.BadgesEarned)
	}
}

func TestLeaderboardDerivesLevels(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	if _, err := st.AppendXP(ctx, store.DemoUserID, "", "complete_step_5", 250); err != nil {
		t.Fatalf("append xp: %v", err)
	}
	entries, err := svc.Leaderboard(ctx, "", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].XP != 250 || entries[0].Level != 2 {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}
