package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/pkg/dbmetrics"
	"github.com/m04kA/barbershop-booking/pkg/psqlbuilder"
)

const table = "notification_log"

// Repository журнал попыток отправки писем. Записи только добавляются.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала уведомлений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись о попытке отправки
func (r *Repository) Append(ctx context.Context, e *domain.NotificationLogEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("appointment_id", "kind", "recipient", "outcome", "error", "provider_message_id").
		Values(e.AppointmentID, e.Kind, e.Recipient, e.Outcome, e.Error, e.ProviderMessageID).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}
	e.CreatedAt = createdAt.Time

	return nil
}

// ListByAppointment журнал по записи, в порядке отправки
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID string) ([]*domain.NotificationLogEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"kind",
		"recipient",
		"outcome",
		"error",
		"provider_message_id",
		"created_at",
	).
		From(table).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.NotificationLogEntry, 0)
	for rows.Next() {
		var (
			e                 domain.NotificationLogEntry
			errText, provider sql.NullString
			createdAt         sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.AppointmentID, &e.Kind, &e.Recipient, &e.Outcome, &errText, &provider, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByAppointment - scan row: %v", ErrScanRow, err)
		}
		if errText.Valid {
			e.Error = &errText.String
		}
		if provider.Valid {
			e.ProviderMessageID = &provider.String
		}
		e.CreatedAt = createdAt.Time
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// DeleteByAppointmentIDs удаляет журнал указанных записей
func (r *Repository) DeleteByAppointmentIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"appointment_id": ids}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByAppointmentIDs - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByAppointmentIDs - execute delete: %v", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByAppointmentIDs - get rows affected: %v", ErrExecQuery, err)
	}
	return n, nil
}
