// File path: internal/store/gamification.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// seedBadges maps each design step to its completion badge. IDs are fixed so
// migrations stay idempotent.
var seedBadges = []Badge{
	{ID: "20000000-0000-0000-0000-000000000001", Name: "Problem Spotter", Description: "Completed the problem definition step", Icon: "target", StepNumber: 1},
	{ID: "20000000-0000-0000-0000-000000000002", Name: "Community Builder", Description: "Completed the stakeholder mapping step", Icon: "users", StepNumber: 2},
	{ID: "20000000-0000-0000-0000-000000000003", Name: "Evidence Seeker", Description: "Completed the proven model exploration step", Icon: "book-open", StepNumber: 3},
	{ID: "20000000-0000-0000-0000-000000000004", Name: "Outcome Architect", Description: "Completed the outcomes and indicators step", Icon: "bar-chart", StepNumber: 4},
	{ID: "20000000-0000-0000-0000-000000000005", Name: "Program Designer", Description: "Completed the full five-step design journey", Icon: "award", StepNumber: 5},
}

// AppendXP records an XP ledger entry and returns the user's new total.
func (s *Store) AppendXP(ctx context.Context, userID, programID, action string, points int) (int, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, errors.New("user id required")
	}
	var pid interface{}
	if programID = strings.TrimSpace(programID); programID != "" {
		pid = programID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO xp_ledger(id, user_id, program_id, action, points) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, pid, action, points)
	if err != nil {
		return 0, fmt.Errorf("insert xp entry: %w", err)
	}
	return s.TotalXP(ctx, userID)
}

// TotalXP sums the XP ledger for a user.
func (s *Store) TotalXP(ctx context.Context, userID string) (int, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	var total int
	err := s.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(points), 0) FROM xp_ledger WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("sum xp: %w", err)
	}
	return total, nil
}

// ListXPEntries returns a user's XP history, newest first.
func (s *Store) ListXPEntries(ctx context.Context, userID string, limit int) ([]XPEntry, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	var out []XPEntry
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM xp_ledger WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select xp entries: %w", err)
	}
	return out, nil
}

// XPEntriesSince returns a user's XP entries created at or after the cutoff,
// oldest first. Used by the weekly progress analytics.
func (s *Store) XPEntriesSince(ctx context.Context, userID string, since time.Time) ([]XPEntry, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var out []XPEntry
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM xp_ledger WHERE user_id = ? AND created_at >= ? ORDER BY created_at, id`,
		userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("select xp entries since: %w", err)
	}
	return out, nil
}

// TotalXPBefore sums a user's XP earned before the cutoff.
func (s *Store) TotalXPBefore(ctx context.Context, userID string, before time.Time) (int, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	var total int
	err := s.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(points), 0) FROM xp_ledger WHERE user_id = ? AND created_at < ?`,
		userID, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("sum xp before: %w", err)
	}
	return total, nil
}

// BadgeForStep resolves the badge awarded when a step completes.
func (s *Store) BadgeForStep(ctx context.Context, step int) (*Badge, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var badge Badge
	err := s.db.GetContext(ctx, &badge, `SELECT * FROM badges WHERE step_number = ?`, step)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select badge: %w", err)
	}
	return &badge, nil
}

// AwardBadge grants a badge for a user and program. Granting the same badge
// twice is a no-op; the bool reports whether the badge was newly earned.
func (s *Store) AwardBadge(ctx context.Context, userID, badgeID, programID string) (bool, error) {
	if err := s.ensureReady(); err != nil {
		return false, err
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO user_badges(id, user_id, badge_id, program_id) VALUES (?, ?, ?, ?)
                 ON CONFLICT(user_id, badge_id, program_id) DO NOTHING`,
		uuid.NewString(), userID, badgeID, programID)
	if err != nil {
		return false, fmt.Errorf("award badge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("award badge result: %w", err)
	}
	return affected > 0, nil
}

// EarnedBadge joins a badge definition with when it was earned.
type EarnedBadge struct {
	Badge
	ProgramID string `db:"program_id" json:"program_id"`
	EarnedAt  string `db:"earned_at" json:"earned_at"`
}

// ListEarnedBadges returns the badges a user has earned, newest first.
func (s *Store) ListEarnedBadges(ctx context.Context, userID string) ([]EarnedBadge, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var out []EarnedBadge
	err := s.db.SelectContext(ctx, &out,
		`SELECT b.id, b.name, b.description, b.icon, b.step_number, b.created_at,
                        ub.program_id, ub.earned_at
                 FROM user_badges ub
                 JOIN badges b ON b.id = ub.badge_id
                 WHERE ub.user_id = ?
                 ORDER BY ub.earned_at DESC, ub.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select earned badges: %w", err)
	}
	return out, nil
}

// CountBadges returns how many badges a user has earned.
func (s *Store) CountBadges(ctx context.Context, userID string) (int, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM user_badges WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("count badges: %w", err)
	}
	return count, nil
}

// GetStreak fetches a user's streak row; a zero-valued Streak is returned when
// none exists yet.
func (s *Store) GetStreak(ctx context.Context, userID string) (*Streak, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var streak Streak
	err := s.db.GetContext(ctx, &streak, `SELECT * FROM streaks WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &Streak{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select streak: %w", err)
	}
	return &streak, nil
}

// SaveStreak upserts a user's streak row.
func (s *Store) SaveStreak(ctx context.Context, streak Streak) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO streaks(user_id, current_streak, longest_streak, last_activity)
                 VALUES (?, ?, ?, ?)
                 ON CONFLICT(user_id) DO UPDATE SET
                        current_streak = excluded.current_streak,
                        longest_streak = excluded.longest_streak,
                        last_activity = excluded.last_activity,
                        updated_at = CURRENT_TIMESTAMP`,
		streak.UserID, streak.CurrentStreak, streak.LongestStreak, streak.LastActivity)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

// LeaderboardRow is one entry in the XP leaderboard.
type LeaderboardRow struct {
	Rank         int    `db:"-" json:"rank"`
	UserID       string `db:"user_id" json:"user_id"`
	Name         string `db:"name" json:"name"`
	Organization string `db:"organization" json:"organization,omitempty"`
	XP           int    `db:"xp" json:"xp"`
}

// Leaderboard ranks users by total XP, optionally scoped to an organization.
func (s *Store) Leaderboard(ctx context.Context, organizationID string, limit int) ([]LeaderboardRow, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT u.id AS user_id, u.full_name AS name,
                        COALESCE(o.name, '') AS organization,
                        COALESCE(SUM(x.points), 0) AS xp
                 FROM users u
                 LEFT JOIN organizations o ON o.id = u.organization_id
                 LEFT JOIN xp_ledger x ON x.user_id = u.id`
	var args []interface{}
	if organizationID = strings.TrimSpace(organizationID); organizationID != "" {
		query += ` WHERE u.organization_id = ?`
		args = append(args, organizationID)
	}
	query += ` GROUP BY u.id HAVING xp > 0 ORDER BY xp DESC, u.full_name LIMIT ?`
	args = append(args, limit)

	var rows []LeaderboardRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// CountCompletedPrograms returns how many of a user's programs reached the
// completed status.
func (s *Store) CountCompletedPrograms(ctx context.Context, userID string) (int, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM programs WHERE user_id = ? AND status = ?`, userID, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("count completed programs: %w", err)
	}
	return count, nil
}
