package role

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/pkg/dbmetrics"
	"github.com/m04kA/barbershop-booking/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("role.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("role.repository: failed to execute query")
)

// Repository роли пользователей
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория ролей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRole роль пользователя; без записи в таблице пользователь обычный
func (r *Repository) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("role").
		From("user_roles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return "", fmt.Errorf("%w: GetRole - build select query: %v", ErrBuildQuery, err)
	}

	var role domain.Role
	err = executor.QueryRowContext(ctx, query, args...).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoleUser, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: GetRole - scan role: %v", ErrExecQuery, err)
	}

	return role, nil
}

// IsAdmin проверяет, является ли пользователь администратором
func (r *Repository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" || userID == domain.AnonymousUserID {
		return false, nil
	}
	role, err := r.GetRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == domain.RoleAdmin, nil
}

// SetRole назначает роль пользователю
func (r *Repository) SetRole(ctx context.Context, userID string, role domain.Role) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("user_roles").
		Columns("user_id", "role").
		Values(userID, role).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetRole - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetRole - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}
