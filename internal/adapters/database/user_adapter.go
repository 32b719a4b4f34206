package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/clients/postgres"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

var userColumns = []interface{}{
	"id", "telegram_id", "first_name", "last_name", "username",
	"apartment", "building", "street", "phone", "email",
	"is_admin", "is_active", "created_at", "updated_at",
}

// UserAdapter implements user persistence in Postgres
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a user row
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"id":          user.ID,
		"telegram_id": user.TelegramID,
		"first_name":  user.FirstName,
		"last_name":   nullString(user.LastName),
		"username":    nullString(user.Username),
		"apartment":   nullString(user.Apartment),
		"building":    nullString(user.Building),
		"street":      nullString(user.Street),
		"phone":       nullString(user.Phone),
		"email":       nullString(user.Email),
		"is_admin":    user.IsAdmin,
		"is_active":   user.IsActive,
		"created_at":  user.CreatedAt,
		"updated_at":  user.UpdatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %s not found", id))
}

// GetByTelegramID retrieves a user by the external Telegram identity
func (a *UserAdapter) GetByTelegramID(ctx context.Context, telegramID string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"telegram_id": telegramID}, fmt.Sprintf("user with telegram id %s not found", telegramID))
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).From("users").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// Update updates a user row
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"first_name": user.FirstName,
		"last_name":  nullString(user.LastName),
		"username":   nullString(user.Username),
		"apartment":  nullString(user.Apartment),
		"building":   nullString(user.Building),
		"street":     nullString(user.Street),
		"phone":      nullString(user.Phone),
		"email":      nullString(user.Email),
		"is_admin":   user.IsAdmin,
		"is_active":  user.IsActive,
		"updated_at": user.UpdatedAt,
	}

	query, args, err := a.db.Update("users").Set(record).Where(goqu.Ex{"id": user.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", user.ID))
	}

	return nil
}

// ListActive retrieves all active users
func (a *UserAdapter) ListActive(ctx context.Context) ([]*entities.User, error) {
	return a.list(ctx, goqu.Ex{"is_active": true})
}

// ListActiveByBuilding retrieves active users at a given building
func (a *UserAdapter) ListActiveByBuilding(ctx context.Context, building string) ([]*entities.User, error) {
	return a.list(ctx, goqu.Ex{"is_active": true, "building": building})
}

// ListActiveByIDs retrieves the active subset of the given users
func (a *UserAdapter) ListActiveByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return a.list(ctx, goqu.Ex{"is_active": true, "id": ids})
}

func (a *UserAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).From("users").
		Where(where).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*entities.User, error) {
	user := &entities.User{}
	var lastName, username, apartment, building, street, phone, email sql.NullString

	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.FirstName,
		&lastName,
		&username,
		&apartment,
		&building,
		&street,
		&phone,
		&email,
		&user.IsAdmin,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.LastName = lastName.String
	user.Username = username.String
	user.Apartment = apartment.String
	user.Building = building.String
	user.Street = street.String
	user.Phone = phone.String
	user.Email = email.String

	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
