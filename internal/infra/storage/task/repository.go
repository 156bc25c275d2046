package task

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/pkg/dbmetrics"
	"github.com/m04kA/barbershop-booking/pkg/psqlbuilder"
)

const table = "scheduled_tasks"

const returning = "RETURNING id, name, payload, run_at, status, attempts, max_attempts, last_error, created_at, updated_at"

// Repository очередь отложенных задач (outbox)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория задач
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

const savepoint = "scheduled_task_insert"

// Insert добавляет задачу в очередь.
// Внутри транзакции задача появится только вместе с её коммитом, а неудачная
// вставка откатывается до savepoint и не ломает внешнюю транзакцию.
func (r *Repository) Insert(ctx context.Context, t *domain.Task) (err error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if dbmetrics.IsInTransaction(ctx) {
		if _, err := executor.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
			return fmt.Errorf("%w: Insert - savepoint: %v", ErrExecQuery, err)
		}
		defer func() {
			stmt := "RELEASE SAVEPOINT " + savepoint
			if err != nil {
				stmt = "ROLLBACK TO SAVEPOINT " + savepoint
			}
			if _, spErr := executor.ExecContext(ctx, stmt); spErr != nil && err == nil {
				err = fmt.Errorf("%w: Insert - release savepoint: %v", ErrExecQuery, spErr)
			}
		}()
	}

	payload := []byte(t.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "name", "payload", "run_at", "status", "max_attempts").
		Values(t.ID, t.Name, payload, t.RunAt, domain.TaskPending, t.MaxAttempts).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("%w: Insert - execute insert: %v", ErrExecQuery, err)
	}

	t.Status = domain.TaskPending
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return nil
}

// ClaimDue атомарно забирает до limit готовых задач и берёт на них аренду до now+lease.
// Задачи, чья аренда истекла (воркер упал), забираются повторно.
// FOR UPDATE SKIP LOCKED позволяет нескольким воркерам не мешать друг другу.
func (r *Repository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*domain.Task, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	due := squirrel.Select("id").
		From(table).
		Where(squirrel.Or{
			squirrel.And{squirrel.Eq{"status": domain.TaskPending}, squirrel.LtOrEq{"run_at": now}},
			squirrel.And{squirrel.Eq{"status": domain.TaskRunning}, squirrel.Lt{"locked_until": now}},
		}).
		OrderBy("run_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.TaskRunning).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("locked_until", now.Add(lease)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Expr("id IN (?)", due)).
		Suffix(returning).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0, limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ClaimDue - scan row: %v", ErrScanRow, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - rows error: %v", ErrScanRow, err)
	}

	return tasks, nil
}

// MarkDone помечает задачу выполненной
func (r *Repository) MarkDone(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.TaskDone).
		Set("locked_until", nil).
		Set("last_error", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkDone - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "MarkDone", query, args)
}

// MarkFailed фиксирует ошибку. С retryAt задача возвращается в очередь,
// без него помечается окончательно проваленной.
func (r *Repository) MarkFailed(ctx context.Context, id string, errText string, retryAt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	update := psqlbuilder.Update(table).
		Set("last_error", errText).
		Set("locked_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if retryAt != nil {
		update = update.Set("status", domain.TaskPending).Set("run_at", *retryAt)
	} else {
		update = update.Set("status", domain.TaskFailed)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "MarkFailed", query, args)
}

// HasActive проверяет, есть ли незавершённая задача с таким именем
func (r *Repository) HasActive(ctx context.Context, name string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	active := squirrel.Select("1").
		From(table).
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"status": []domain.TaskStatus{domain.TaskPending, domain.TaskRunning}})

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("EXISTS(?)", active)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActive - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasActive - scan: %v", ErrScanRow, err)
	}
	return exists, nil
}

func (r *Repository) execOne(ctx context.Context, executor dbmetrics.DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func scanTask(rows *sql.Rows) (*domain.Task, error) {
	var (
		t                    domain.Task
		payload              []byte
		lastError            sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := rows.Scan(
		&t.ID,
		&t.Name,
		&payload,
		&t.RunAt,
		&t.Status,
		&t.Attempts,
		&t.MaxAttempts,
		&lastError,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Payload = append([]byte(nil), payload...)
	if lastError.Valid {
		t.LastError = &lastError.String
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
