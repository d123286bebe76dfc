package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
)

// GetRoutinesByShowID 按创建顺序返回演出的所有节目，这个顺序也是自动排序时分数相同的节目的先后顺序
func (r *Repository) GetRoutinesByShowID(showID int64) ([]*domain.Routine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			r.id,
			r.name,
			r.duration,
			r.position,
			r.high_energy,
			r.created_at,
			r.version,
			rp.performer_name
		FROM routines r
		LEFT JOIN routine_performers rp ON r.id = rp.routine_id
		WHERE r.show_id = $1
		ORDER BY r.id, rp.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routines := make([]*domain.Routine, 0)
	routinesMap := make(map[int64]*domain.Routine)

	for rows.Next() {
		var row struct {
			ID            int64
			Name          string
			Duration      *int32
			Order         *int32
			HighEnergy    bool
			CreatedAt     time.Time
			Version       int32
			PerformerName sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.Duration,
			&row.Order,
			&row.HighEnergy,
			&row.CreatedAt,
			&row.Version,
			&row.PerformerName,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		routine, exists := routinesMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个节目
			routine = &domain.Routine{
				ID:         row.ID,
				ShowID:     showID,
				Name:       row.Name,
				Duration:   row.Duration,
				Order:      row.Order,
				HighEnergy: row.HighEnergy,
				Performers: make([]string, 0),
				CreatedAt:  row.CreatedAt,
				Version:    row.Version,
			}
			routinesMap[row.ID] = routine
			routines = append(routines, routine)
		}

		if !row.PerformerName.Valid {
			// 说明这个节目还没有演员
			continue
		}

		routine.Performers = append(routine.Performers, row.PerformerName.String)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return routines, nil
}

func (r *Repository) GetRoutineByID(id int64) (*domain.Routine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT show_id, name, duration, position, high_energy, created_at, version
		FROM routines
		WHERE id = $1
	`

	routine := &domain.Routine{
		ID:         id,
		Performers: make([]string, 0),
	}

	dst := []any{
		&routine.ShowID,
		&routine.Name,
		&routine.Duration,
		&routine.Order,
		&routine.HighEnergy,
		&routine.CreatedAt,
		&routine.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	query = `SELECT performer_name FROM routine_performers WHERE routine_id = $1 ORDER BY id`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		routine.Performers = append(routine.Performers, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return routine, nil
}

func (r *Repository) CreateRoutine(routine *domain.Routine) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO routines (show_id, name, duration, position, high_energy)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	params := []any{routine.ShowID, routine.Name, routine.Duration, routine.Order, routine.HighEnergy}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&routine.ID, &routine.CreatedAt, &routine.Version); err != nil {
		return err
	}

	if err := insertPerformers(ctx, tx, routine); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateRoutine(routine *domain.Routine) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE routines
		SET
			name = $1,
			duration = $2,
			position = $3,
			high_energy = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`
	params := []any{routine.Name, routine.Duration, routine.Order, routine.HighEnergy, routine.ID, routine.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&routine.Version); err != nil {
		return err
	}

	// 演员列表整体替换
	query = `DELETE FROM routine_performers WHERE routine_id = $1`
	if _, err := tx.ExecContext(ctx, query, routine.ID); err != nil {
		return err
	}

	if err := insertPerformers(ctx, tx, routine); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRoutine(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM routines WHERE id = $1`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func insertPerformers(ctx context.Context, tx *sql.Tx, routine *domain.Routine) error {
	query := `
		INSERT INTO routine_performers (routine_id, performer_name)
		VALUES ($1, $2)
	`
	for _, name := range routine.Performers {
		if _, err := tx.ExecContext(ctx, query, routine.ID, name); err != nil {
			return err
		}
	}
	return nil
}
