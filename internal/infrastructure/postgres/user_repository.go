package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL. La
// lista blanca de bodegas vive en la tabla puente user_warehouses.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, name, role, status, created_at, updated_at`

// Create persiste un nuevo usuario; ErrEmailAlreadyExists si el email ya existe.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanUser(ctx context.Context, row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadWarehouses(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) loadWarehouses(ctx context.Context, user *entity.User) error {
	rows, err := r.q.Query(ctx,
		`SELECT warehouse_id FROM user_warehouses WHERE user_id = $1 ORDER BY warehouse_id`, user.ID)
	if err != nil {
		return fmt.Errorf("list user warehouses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan user warehouse: %w", err)
		}
		user.AllowedWarehouseIDs = append(user.AllowedWarehouseIDs, id)
	}
	return rows.Err()
}

// GetByID obtiene un usuario con sus bodegas; nil si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	ctx := context.Background()
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := r.scanUser(ctx, r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// FindByEmail obtiene un usuario por email; nil si no existe.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := r.scanUser(ctx, r.q.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// Update actualiza nombre, rol y estado.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET name = $2, role = $3, status = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, user.ID, user.Name, user.Role, user.Status)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAllowedWarehouses reemplaza la lista blanca de bodegas del usuario.
func (r *UserRepo) SetAllowedWarehouses(userID string, warehouseIDs []string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM user_warehouses WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user warehouses: %w", err)
	}
	for _, warehouseID := range warehouseIDs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO user_warehouses (user_id, warehouse_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, warehouseID)
		if err != nil {
			return fmt.Errorf("insert user warehouse: %w", err)
		}
	}
	return nil
}

// List lista usuarios paginados por email.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY email LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, u := range out {
		if err := r.loadWarehouses(ctx, u); err != nil {
			return nil, err
		}
	}
	return out, nil
}
