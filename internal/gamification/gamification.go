// File path: internal/gamification/gamification.go
package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/logicforge/logicforge/internal/common"
	"github.com/logicforge/logicforge/internal/store"
)

// XP awarded per action. Unknown actions award nothing.
var xpRewards = map[string]int{
	"complete_step_1":         100,
	"complete_step_2":         150,
	"complete_step_3":         150,
	"complete_step_4":         200,
	"complete_step_5":         250,
	"ai_refine_problem":       25,
	"ai_suggest_stakeholders": 25,
	"ai_generate_indicators":  50,
	"daily_login":             10,
	"streak_bonus_7":          100,
	"streak_bonus_30":         500,
}

type levelThreshold struct {
	level     int
	threshold int
	title     string
}

var levelThresholds = []levelThreshold{
	{1, 0, "Rookie"},
	{2, 200, "Explorer"},
	{3, 500, "Strategist"},
	{4, 1000, "Architect"},
	{5, 2000, "Master"},
	{6, 4000, "Legend"},
	{7, 7000, "Champion"},
	{8, 10000, "Grandmaster"},
}

// LevelFor maps a total XP value to its level and title.
func LevelFor(totalXP int) (int, string) {
	level, title := 1, "Rookie"
	for _, lt := range levelThresholds {
		if totalXP >= lt.threshold {
			level, title = lt.level, lt.title
		}
	}
	return level, title
}

// XPToNextLevel returns how much XP remains until the next level, or zero at
// the top level.
func XPToNextLevel(totalXP int) int {
	level, _ := LevelFor(totalXP)
	for _, lt := range levelThresholds {
		if lt.level == level+1 {
			if remaining := lt.threshold - totalXP; remaining > 0 {
				return remaining
			}
			return 0
		}
	}
	return 0
}

// Service implements XP awards, streak maintenance and badge grants on top of
// the store's ledger tables.
type Service struct {
	store *store.Store
	now   func() time.Time
}

// NewService constructs a gamification service. now defaults to time.Now and
// exists so tests can pin the clock.
func NewService(st *store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// AwardResult reports the effect of one XP award.
type AwardResult struct {
	Awarded    int    `json:"awarded"`
	Action     string `json:"action"`
	TotalXP    int    `json:"total_xp"`
	Level      int    `json:"level"`
	LevelTitle string `json:"level_title"`
}

// Award grants the XP configured for an action. Unknown actions award zero
// and leave the ledger untouched.
func (s *Service) Award(ctx context.Context, userID, programID, action string) (*AwardResult, error) {
	points, ok := xpRewards[action]
	if !ok || points == 0 {
		total, err := s.store.TotalXP(ctx, userID)
		if err != nil {
			return nil, err
		}
		level, title := LevelFor(total)
		return &AwardResult{Action: action, TotalXP: total, Level: level, LevelTitle: title}, nil
	}
	total, err := s.store.AppendXP(ctx, userID, programID, action, points)
	if err != nil {
		return nil, err
	}
	level, title := LevelFor(total)
	common.Logger().Info("gamification: xp awarded", "user", userID, "action", action, "points", points, "total", total)
	return &AwardResult{Awarded: points, Action: action, TotalXP: total, Level: level, LevelTitle: title}, nil
}

// StreakResult reports the streak state after a daily touch.
type StreakResult struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	StreakBonus   int `json:"streak_bonus"`
}

// TouchStreak records activity for today. Activity on consecutive days grows
// the streak; a gap resets it to one; a second touch on the same day changes
// nothing. Hitting 7 or 30 consecutive days pays a bonus.
func (s *Service) TouchStreak(ctx context.Context, userID string) (*StreakResult, error) {
	streak, err := s.store.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.now().UTC().Format("2006-01-02")
	yesterday := s.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	switch streak.LastActivity {
	case today:
		return &StreakResult{CurrentStreak: streak.CurrentStreak, LongestStreak: streak.LongestStreak}, nil
	case yesterday:
		streak.CurrentStreak++
	default:
		streak.CurrentStreak = 1
	}
	streak.LastActivity = today
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	if err := s.store.SaveStreak(ctx, *streak); err != nil {
		return nil, err
	}

	bonus := 0
	switch streak.CurrentStreak {
	case 7:
		if result, err := s.Award(ctx, userID, "", "streak_bonus_7"); err == nil {
			bonus = result.Awarded
		}
	case 30:
		if result, err := s.Award(ctx, userID, "", "streak_bonus_30"); err == nil {
			bonus = result.Awarded
		}
	}
	return &StreakResult{
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
		StreakBonus:   bonus,
	}, nil
}

// AwardStepBadge grants the badge tied to a completed step. Duplicate grants
// for the same program are silently skipped.
func (s *Service) AwardStepBadge(ctx context.Context, userID, programID string, step int) (*store.Badge, bool, error) {
	badge, err := s.store.BadgeForStep(ctx, step)
	if err != nil {
		return nil, false, fmt.Errorf("resolve step badge: %w", err)
	}
	earned, err := s.store.AwardBadge(ctx, userID, badge.ID, programID)
	if err != nil {
		return nil, false, err
	}
	if earned {
		common.Logger().Info("gamification: badge earned", "user", userID, "badge", badge.Name, "program", programID)
	}
	return badge, earned, nil
}

// Stats is the gamification summary for one user.
type Stats struct {
	TotalXP           int    `json:"total_xp"`
	Level             int    `json:"level"`
	LevelTitle        string `json:"level_title"`
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	BadgesEarned      int    `json:"badges_earned"`
	ProgramsCompleted int    `json:"programs_completed"`
	XPToNextLevel     int    `json:"xp_to_next_level"`
}

// UserStats assembles the full gamification summary for a user.
func (s *Service) UserStats(ctx context.Context, userID string) (*Stats, error) {
	total, err := s.store.TotalXP(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.store.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.store.CountBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.CountCompletedPrograms(ctx, userID)
	if err != nil {
		return nil, err
	}
	level, title := LevelFor(total)
	return &Stats{
		TotalXP:           total,
		Level:             level,
		LevelTitle:        title,
		CurrentStreak:     streak.CurrentStreak,
		LongestStreak:     streak.LongestStreak,
		BadgesEarned:      badges,
		ProgramsCompleted: completed,
		XPToNextLevel:     XPToNextLevel(total),
	}, nil
}

// LeaderboardEntry is one ranked row with the level derived from XP.
type LeaderboardEntry struct {
	store.LeaderboardRow
	Level int `json:"level"`
}

// Leaderboard ranks users by XP, optionally scoped to one organization.
func (s *Service) Leaderboard(ctx context.Context, organizationID string, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.store.Leaderboard(ctx, organizationID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		level, _ := LevelFor(row.XP)
		out = append(out, LeaderboardEntry{LeaderboardRow: row, Level: level})
	}
	return out, nil
}
