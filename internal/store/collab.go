// File path: internal/store/collab.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AddComment attaches a review comment to a program section.
func (s *Store) AddComment(ctx context.Context, c Comment) (*Comment, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	c.Content = strings.TrimSpace(c.Content)
	if c.ProgramID == "" {
		return nil, errors.New("program id required")
	}
	if c.Content == "" {
		return nil, errors.New("comment content required")
	}
	c.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments(id, program_id, user_id, user_name, content, section, is_resolved)
                 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		c.ID, c.ProgramID, c.UserID, c.UserName, c.Content, c.Section)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return s.getComment(ctx, c.ID)
}

func (s *Store) getComment(ctx context.Context, id string) (*Comment, error) {
	var c Comment
	err := s.db.GetContext(ctx, &c, `SELECT * FROM comments WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select comment: %w", err)
	}
	return &c, nil
}

// ListComments returns a program's comments, optionally scoped to a section.
func (s *Store) ListComments(ctx context.Context, programID, section string) ([]Comment, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	query := `SELECT * FROM comments WHERE program_id = ?`
	args := []interface{}{programID}
	if section = strings.TrimSpace(section); section != "" {
		query += ` AND section = ?`
		args = append(args, section)
	}
	query += ` ORDER BY created_at, id`
	var out []Comment
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	return out, nil
}

// ResolveComment marks a comment as resolved.
func (s *Store) ResolveComment(ctx context.Context, id string) (*Comment, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE comments SET is_resolved = 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("resolve comment: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotFound
	}
	return s.getComment(ctx, id)
}

// DeleteComment removes a comment by id.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SnapshotVersion records a numbered version snapshot for a program. Version
// numbers are allocated sequentially per program inside one transaction.
func (s *Store) SnapshotVersion(ctx context.Context, v ProgramVersion) (*ProgramVersion, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if v.ProgramID == "" {
		return nil, errors.New("program id required")
	}
	v.ID = uuid.NewString()
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var next int
		err := tx.GetContext(ctx, &next,
			`SELECT COALESCE(MAX(version_number), 0) + 1 FROM program_versions WHERE program_id = ?`,
			v.ProgramID)
		if err != nil {
			return fmt.Errorf("next version number: %w", err)
		}
		v.VersionNumber = next
		_, err = tx.ExecContext(ctx,
			`INSERT INTO program_versions(id, program_id, user_id, user_name, description, changes, version_number)
                         VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.ProgramID, v.UserID, v.UserName, v.Description, v.Changes, v.VersionNumber)
		if err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var out ProgramVersion
	if err := s.db.GetContext(ctx, &out, `SELECT * FROM program_versions WHERE id = ?`, v.ID); err != nil {
		return nil, fmt.Errorf("select version: %w", err)
	}
	return &out, nil
}

// ListVersions returns a program's version history, newest first.
func (s *Store) ListVersions(ctx context.Context, programID string) ([]ProgramVersion, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var out []ProgramVersion
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM program_versions WHERE program_id = ? ORDER BY version_number DESC`, programID)
	if err != nil {
		return nil, fmt.Errorf("select versions: %w", err)
	}
	return out, nil
}

// GetVersion fetches a specific snapshot by program and version number.
func (s *Store) GetVersion(ctx context.Context, programID string, number int) (*ProgramVersion, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var v ProgramVersion
	err := s.db.GetContext(ctx, &v,
		`SELECT * FROM program_versions WHERE program_id = ? AND version_number = ?`,
		programID, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select version: %w", err)
	}
	return &v, nil
}

// AddActivity schedules a work-plan activity for a program.
func (s *Store) AddActivity(ctx context.Context, a Activity) (*Activity, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	a.Title = strings.TrimSpace(a.Title)
	if a.ProgramID == "" {
		return nil, errors.New("program id required")
	}
	if a.Title == "" {
		return nil, errors.New("activity title required")
	}
	if a.StartDate == "" || a.EndDate == "" {
		return nil, errors.New("activity start and end dates required")
	}
	if a.Status == "" {
		a.Status = "planned"
	}
	if !validActivityStatus(a.Status) {
		return nil, fmt.Errorf("invalid activity status %q", a.Status)
	}
	a.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities(id, program_id, outcome_id, title, description, start_date, end_date, status, responsible_person, resources_needed, progress_percentage)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProgramID, a.OutcomeID, a.Title, a.Description, a.StartDate, a.EndDate,
		a.Status, a.ResponsiblePerson, a.ResourcesNeeded, a.ProgressPercentage)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return s.GetActivity(ctx, a.ID)
}

// GetActivity fetches a single activity by id.
func (s *Store) GetActivity(ctx context.Context, id string) (*Activity, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var a Activity
	err := s.db.GetContext(ctx, &a, `SELECT * FROM activities WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select activity: %w", err)
	}
	return &a, nil
}

// ListActivities returns a program's activities ordered by start date.
func (s *Store) ListActivities(ctx context.Context, programID, status string) ([]Activity, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	query := `SELECT * FROM activities WHERE program_id = ?`
	args := []interface{}{programID}
	if status = strings.TrimSpace(status); status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY start_date, id`
	var out []Activity
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	return out, nil
}

// UpdateActivity patches an existing activity. Progress is clamped to 0-100
// and a 100% update marks the activity completed.
func (s *Store) UpdateActivity(ctx context.Context, a Activity) (*Activity, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	current, err := s.GetActivity(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(a.Title); v != "" {
		current.Title = v
	}
	if v := strings.TrimSpace(a.Description); v != "" {
		current.Description = v
	}
	if v := strings.TrimSpace(a.StartDate); v != "" {
		current.StartDate = v
	}
	if v := strings.TrimSpace(a.EndDate); v != "" {
		current.EndDate = v
	}
	if v := strings.TrimSpace(a.ResponsiblePerson); v != "" {
		current.ResponsiblePerson = v
	}
	if v := strings.TrimSpace(a.ResourcesNeeded); v != "" {
		current.ResourcesNeeded = v
	}
	if v := strings.TrimSpace(a.Status); v != "" {
		if !validActivityStatus(v) {
			return nil, fmt.Errorf("invalid activity status %q", v)
		}
		current.Status = v
	}
	if a.ProgressPercentage > 0 {
		progress := a.ProgressPercentage
		if progress > 100 {
			progress = 100
		}
		current.ProgressPercentage = progress
		if progress == 100 {
			current.Status = "completed"
		}
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE activities SET title = ?, description = ?, start_date = ?, end_date = ?, status = ?, responsible_person = ?, resources_needed = ?, progress_percentage = ?, updated_at = CURRENT_TIMESTAMP
                 WHERE id = ?`,
		current.Title, current.Description, current.StartDate, current.EndDate, current.Status,
		current.ResponsiblePerson, current.ResourcesNeeded, current.ProgressPercentage, current.ID)
	if err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return s.GetActivity(ctx, current.ID)
}

// DeleteActivity removes an activity by id.
func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func validActivityStatus(status string) bool {
	switch status {
	case "planned", "in_progress", "completed", "delayed":
		return true
	}
	return false
}
