package vacation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/pkg/dbmetrics"
	"github.com/m04kA/barbershop-booking/pkg/psqlbuilder"
)

const table = "vacations"

var columns = []string{"id", "start_date", "end_date", "start_time", "end_time", "note", "created_at"}

// Repository репозиторий отпусков (периодов, когда запись невозможна)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отпусков
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый отпуск
func (r *Repository) Create(ctx context.Context, v *domain.Vacation) (*domain.Vacation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("start_date", "end_date", "start_time", "end_time", "note").
		Values(v.StartDate, v.EndDate, v.StartTime, v.EndTime, v.Note).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&v.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	v.CreatedAt = createdAt.Time

	return v, nil
}

// ListCovering получает отпуска, которые покрывают указанную дату
func (r *Repository) ListCovering(ctx context.Context, date string) ([]*domain.Vacation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.LtOrEq{"start_date": date}).
		Where(squirrel.GtOrEq{"end_date": date}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListCovering - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListCovering", query, args)
}

// ListFrom получает отпуска, которые заканчиваются не раньше указанной даты
func (r *Repository) ListFrom(ctx context.Context, fromDate string) ([]*domain.Vacation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.GtOrEq{"end_date": fromDate}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListFrom - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListFrom", query, args)
}

// Delete удаляет отпуск
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVacationNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, executor dbmetrics.DBExecutor, op, query string, args []interface{}) ([]*domain.Vacation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	vacations := make([]*domain.Vacation, 0)
	for rows.Next() {
		var (
			v                        domain.Vacation
			startTime, endTime, note sql.NullString
			createdAt                sql.NullTime
		)
		if err := rows.Scan(&v.ID, &v.StartDate, &v.EndDate, &startTime, &endTime, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		if startTime.Valid {
			v.StartTime = &startTime.String
		}
		if endTime.Valid {
			v.EndTime = &endTime.String
		}
		if note.Valid {
			v.Note = &note.String
		}
		v.CreatedAt = createdAt.Time
		vacations = append(vacations, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return vacations, nil
}
