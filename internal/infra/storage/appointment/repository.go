package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/pkg/dbmetrics"
	"github.com/m04kA/barbershop-booking/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"user_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"service_name",
	"date",
	"time",
	"starts_at_ms",
	"duration_minutes",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на стрижку
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись. ID генерируется вызывающей стороной.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"user_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"service_name",
			"date",
			"time",
			"starts_at_ms",
			"duration_minutes",
			"status",
			"notes",
		).
		Values(
			a.ID,
			a.UserID,
			a.CustomerName,
			a.CustomerEmail,
			a.CustomerPhone,
			a.ServiceName,
			a.Date,
			a.Time,
			a.StartsAtMs,
			a.DurationMinutes,
			a.Status,
			a.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListByDate получает записи на указанную дату, отсортированные по времени.
// Отменённые записи включаются только при includeCancelled.
//
// Блокировка строк здесь не берётся: две параллельные проверки одной даты
// могут обе пройти, это известное окно гонки между чтением и вставкой.
func (r *Repository) ListByDate(ctx context.Context, date string, includeCancelled bool) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"date": date}).
		OrderBy("starts_at_ms ASC NULLS LAST", "time ASC")

	if !includeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListByDate", query, args)
}

// ListByUserID получает записи пользователя, новые сначала
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC", "time DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUserID - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListByUserID", query, args)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateStatus", query, args)
}

// SetStartsAt однократно проставляет абсолютное время начала для старой записи
func (r *Repository) SetStartsAt(ctx context.Context, id string, startsAtMs int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("starts_at_ms", startsAtMs).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"starts_at_ms": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetStartsAt - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "SetStartsAt", query, args)
}

// Delete удаляет запись
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "Delete", query, args)
}

// DeleteByIDs удаляет пачку записей, возвращает количество удалённых
func (r *Repository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - execute delete: %v", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - get rows affected: %v", ErrExecQuery, err)
	}
	return n, nil
}

// ListStartedBefore записи, начавшиеся раньше cutoffMs
func (r *Repository) ListStartedBefore(ctx context.Context, cutoffMs int64, limit int) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Lt{"starts_at_ms": cutoffMs}).
		OrderBy("starts_at_ms ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStartedBefore - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListStartedBefore", query, args)
}

// ListLegacy записи без абсолютного времени начала, постранично по (created_at, id).
// Пустой afterID означает первую страницу.
func (r *Repository) ListLegacy(ctx context.Context, afterCreatedAt time.Time, afterID string, limit int) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"starts_at_ms": nil})
	if afterID != "" {
		builder = builder.Where(squirrel.Expr("(created_at, id) > (?, ?::uuid)", afterCreatedAt, afterID))
	}

	query, args, err := builder.
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListLegacy - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListLegacy", query, args)
}

// LinkAnonymousByEmail переназначает до limit анонимных записей с совпадающим email
// (без учёта регистра) на пользователя. Повторный вызов ничего не меняет.
func (r *Repository) LinkAnonymousByEmail(ctx context.Context, email, userID string, limit int) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Подзапрос в формате "?": плейсхолдеры нумерует внешний билдер
	candidates := squirrel.Select("id").
		From(table).
		Where(squirrel.Eq{"user_id": domain.AnonymousUserID}).
		Where(squirrel.Expr("LOWER(customer_email) = LOWER(?)", email)).
		OrderBy("created_at ASC").
		Limit(uint64(limit))

	query, args, err := psqlbuilder.Update(table).
		Set("user_id", userID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Expr("id IN (?)", candidates)).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: LinkAnonymousByEmail - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: LinkAnonymousByEmail - execute update: %v", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: LinkAnonymousByEmail - get rows affected: %v", ErrExecQuery, err)
	}
	return n, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Appointment, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		phone, notes         sql.NullString
		startsAt             sql.NullInt64
		duration             sql.NullInt32
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.CustomerName,
		&a.CustomerEmail,
		&phone,
		&a.ServiceName,
		&a.Date,
		&a.Time,
		&startsAt,
		&duration,
		&a.Status,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		a.CustomerPhone = &phone.String
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	if startsAt.Valid {
		a.StartsAtMs = &startsAt.Int64
	}
	if duration.Valid {
		d := int(duration.Int32)
		a.DurationMinutes = &d
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
