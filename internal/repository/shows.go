package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
)

func (r *Repository) GetAllShows() ([]*domain.Show, error) {
	query := `
		SELECT
			id,
			name,
			description,
			start_time,
			intermission_length,
			intermission_position,
			created_at,
			version
		FROM shows
		ORDER BY start_time DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := []*domain.Show{}
	for rows.Next() {
		var show domain.Show
		dst := []any{
			&show.ID,
			&show.Name,
			&show.Description,
			&show.StartTime,
			&show.IntermissionLength,
			&show.IntermissionPosition,
			&show.CreatedAt,
			&show.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shows = append(shows, &show)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shows, nil
}

func (r *Repository) GetShowByID(id int64) (*domain.Show, error) {
	query := `
		SELECT
			name,
			description,
			start_time,
			intermission_length,
			intermission_position,
			created_at,
			version
		FROM shows
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	show := &domain.Show{
		ID: id,
	}

	dst := []any{
		&show.Name,
		&show.Description,
		&show.StartTime,
		&show.IntermissionLength,
		&show.IntermissionPosition,
		&show.CreatedAt,
		&show.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return show, nil
}

func (r *Repository) CreateShow(show *domain.Show) error {
	query := `
		INSERT INTO shows (
			name,
			description,
			start_time,
			intermission_length,
			intermission_position
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		show.Name,
		show.Description,
		show.StartTime,
		show.IntermissionLength,
		show.IntermissionPosition,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&show.ID, &show.CreatedAt, &show.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShow(show *domain.Show) error {
	query := `
		UPDATE shows
		SET
			name = $1,
			description = $2,
			start_time = $3,
			intermission_length = $4,
			intermission_position = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		show.Name,
		show.Description,
		show.StartTime,
		show.IntermissionLength,
		show.IntermissionPosition,
		show.ID,
		show.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&show.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShow(id int64) error {
	query := `DELETE FROM shows WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
