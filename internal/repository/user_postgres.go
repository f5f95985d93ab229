package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vortrixs/user-api/internal/model"
	"github.com/vortrixs/user-api/internal/sqlerr"
)

const usersTable = "users"

type PostgresUserRepository struct {
	db *gorm.DB
}

var _ UserRepository = (*PostgresUserRepository)(nil)

func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return users, nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if id < 1 {
		return nil, sqlerr.HandleError(sqlerr.TableError(usersTable, gorm.ErrRecordNotFound))
	}

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, sqlerr.HandleError(sqlerr.TableError(usersTable, err))
	}
	return &user, nil
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, sqlerr.HandleError(err)
	}
	return count > 0, nil
}

// Insert stores user and fills in the generated id and timestamps.
func (r *PostgresUserRepository) Insert(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}

// UpdateFields writes only the given columns and returns the row as
// stored, in a single UPDATE ... RETURNING statement. updated_at is
// always set, even when fields is empty. A missing row is a 404.
func (r *PostgresUserRepository) UpdateFields(ctx context.Context, id int64, fields model.UserFields) (*model.User, error) {
	if id < 1 {
		return nil, sqlerr.HandleError(sqlerr.TableError(usersTable, gorm.ErrRecordNotFound))
	}

	values := make(map[string]any, len(fields))
	for column, value := range fields {
		values[column] = value
	}

	var user model.User
	result := r.db.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return nil, sqlerr.HandleError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, sqlerr.HandleError(sqlerr.TableError(usersTable, gorm.ErrRecordNotFound))
	}

	return &user, nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if id < 1 {
		return false, nil
	}

	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return false, sqlerr.HandleError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
