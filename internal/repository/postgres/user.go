package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
)

const userColumns = `id, name, phone, email, governorate, role, vehicle_type, license_plate, is_active, created_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByIDs retrieves the users that exist among ids.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	users := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[user.ID] = user
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var vehicleType, licensePlate sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Phone,
		&user.Email,
		&user.Governorate,
		&user.Role,
		&vehicleType,
		&licensePlate,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.VehicleType = vehicleType.String
	user.LicensePlate = licensePlate.String
	return &user, nil
}

// Ensure UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)
