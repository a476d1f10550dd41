package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"evently/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, full_name, role, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.FullName, u.Role, u.PasswordHash, u.Salt, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

const userColumns = `id, email, full_name, role, password_hash, salt, blocked, block_reason, created_at, updated_at`

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash, &u.Salt,
		&u.Blocked, &u.BlockReason, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) SetRole(ctx context.Context, userID, role string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, userID)
	if err != nil {
		return err
	}
	return requireUser(res)
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID, fullName string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET full_name = $1, updated_at = NOW() WHERE id = $2`, fullName, userID)
	if err != nil {
		return err
	}
	return requireUser(res)
}

func (r *userRepository) SetPassword(ctx context.Context, userID, hash, salt string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, salt = $2, updated_at = NOW() WHERE id = $3`,
		hash, salt, userID)
	if err != nil {
		return err
	}
	return requireUser(res)
}

func (r *userRepository) SetBlocked(ctx context.Context, userID string, blocked bool, reason string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET blocked = $1, block_reason = $2, updated_at = NOW() WHERE id = $3`,
		blocked, reason, userID)
	if err != nil {
		return err
	}
	return requireUser(res)
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]*domain.User, int, error) {
	where := `WHERE TRUE`
	args := []any{}
	n := 1
	if filter.Query != "" {
		where += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d)", n, n)
		args = append(args, "%"+filter.Query+"%")
		n++
	}
	if filter.Role != "" {
		where += fmt.Sprintf(" AND role = $%d", n)
		args = append(args, filter.Role)
		n++
	}
	switch filter.Status {
	case "blocked":
		where += " AND blocked = TRUE"
	case "active":
		where += " AND blocked = FALSE"
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users ` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, params.PageSize, params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash, &u.Salt,
			&u.Blocked, &u.BlockReason, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func requireUser(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
