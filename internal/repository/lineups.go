package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
)

func (r *Repository) InsertLineup(lineup *domain.Lineup) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 一场演出只保留最新的节目单
	query := `DELETE FROM lineups WHERE show_id = $1`
	if _, err := tx.ExecContext(ctx, query, lineup.ShowID); err != nil {
		return err
	}

	query = `
		INSERT INTO lineups (show_id, score)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, lineup.ShowID, lineup.Score).Scan(&lineup.ID, &lineup.CreatedAt, &lineup.Version); err != nil {
		return err
	}

	for _, slot := range lineup.Slots {
		query := `
			INSERT INTO lineup_slots (lineup_id, position, routine_id, is_intermission, name, duration)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		params := []any{lineup.ID, slot.Position, slot.RoutineID, slot.IsIntermission, slot.Name, slot.Duration}
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}

	for _, warning := range lineup.Warnings {
		query := `INSERT INTO lineup_warnings (lineup_id, message) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, lineup.ID, warning); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetLineupByShowID(showID int64) (*domain.Lineup, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			l.id,
			l.score,
			l.created_at,
			l.version,
			ls.position,
			ls.routine_id,
			ls.is_intermission,
			ls.name,
			ls.duration
		FROM lineups l
		LEFT JOIN lineup_slots ls ON l.id = ls.lineup_id
		WHERE l.show_id = $1
		ORDER BY ls.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lineup := &domain.Lineup{
		ShowID:   showID,
		Slots:    make([]domain.LineupSlot, 0),
		Warnings: make([]string, 0),
	}

	for rows.Next() {
		var row struct {
			ID             int64
			Score          int64
			CreatedAt      time.Time
			Version        int32
			Position       sql.NullInt32
			RoutineID      *int64
			IsIntermission sql.NullBool
			Name           sql.NullString
			Duration       *int32
		}

		dst := []any{
			&row.ID,
			&row.Score,
			&row.CreatedAt,
			&row.Version,
			&row.Position,
			&row.RoutineID,
			&row.IsIntermission,
			&row.Name,
			&row.Duration,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		lineup.ID = row.ID
		lineup.Score = row.Score
		lineup.CreatedAt = row.CreatedAt
		lineup.Version = row.Version

		if !row.Position.Valid {
			// 说明这个节目单没有任何位置，正常情况下不会出现
			continue
		}

		lineup.Slots = append(lineup.Slots, domain.LineupSlot{
			Position:       row.Position.Int32,
			RoutineID:      row.RoutineID,
			IsIntermission: row.IsIntermission.Bool,
			Name:           row.Name.String,
			Duration:       row.Duration,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 还需要处理没有结果的情况
	if lineup.ID == 0 {
		return nil, sql.ErrNoRows
	}

	query = `SELECT message FROM lineup_warnings WHERE lineup_id = $1 ORDER BY id`

	warningRows, err := r.dbpool.QueryContext(ctx, query, lineup.ID)
	if err != nil {
		return nil, err
	}
	defer warningRows.Close()

	for warningRows.Next() {
		var message string
		if err := warningRows.Scan(&message); err != nil {
			return nil, err
		}
		lineup.Warnings = append(lineup.Warnings, message)
	}

	if err := warningRows.Err(); err != nil {
		return nil, err
	}

	return lineup, nil
}
