package repository

import (
	"context"

	"github.com/lofoneh/usersvc/internal/models"
	"github.com/lofoneh/usersvc/pkg/database"
)

const userColumns = "id, name, email, password, created_at"

type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}

type userRepository struct {
	stmts statements[models.User]
}

func NewUserRepository(p database.Provider) UserRepository {
	return &userRepository{stmts: newStatements[models.User](p, "user")}
}

// Create inserts name, email and the already hashed password; id and
// created_at come from the database.
func (r *userRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return r.stmts.one(ctx, "create",
		`INSERT INTO users (name, email, password) VALUES (?, ?, ?) RETURNING `+userColumns,
		u.Name, u.Email, u.Password)
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	return r.stmts.all(ctx, "list", `SELECT `+userColumns+` FROM users`)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.stmts.one(ctx, "get", `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// Update overwrites only the columns set in patch.
func (r *userRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	return r.stmts.one(ctx, "update",
		`UPDATE users SET name = COALESCE(?, name), email = COALESCE(?, email), password = COALESCE(?, password) WHERE id = ? RETURNING `+userColumns,
		patch.Name, patch.Email, patch.Password, id)
}

func (r *userRepository) Delete(ctx context.Context, id int64) (*models.User, error) {
	return r.stmts.one(ctx, "delete", `DELETE FROM users WHERE id = ? RETURNING `+userColumns, id)
}
