package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/vortrixs/user-api/internal/database"
	"github.com/vortrixs/user-api/internal/model"
	"github.com/vortrixs/user-api/internal/sqlerr"
)

// MemoryUserRepository is an in-memory UserRepository. It reports
// duplicates and missing rows with the same errors as the Postgres one.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*model.User
	now    func() time.Time
}

var _ UserRepository = (*MemoryUserRepository)(nil)

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		nextID: 1,
		store:  make(map[int64]*model.User),
		now:    database.Now,
	}
}

func (r *MemoryUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.User, 0, len(r.store))
	for _, user := range r.store {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, notFound()
	}
	copy := *user
	return &copy, nil
}

func (r *MemoryUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.emailTaken(email, excludeID), nil
}

func (r *MemoryUserRepository) Insert(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return duplicateEmail()
	}

	now := r.now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++

	copy := *user
	r.store[copy.ID] = &copy
	return nil
}

func (r *MemoryUserRepository) UpdateFields(ctx context.Context, id int64, fields model.UserFields) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[id]
	if !ok {
		return nil, notFound()
	}
	if email, ok := fields.Email(); ok && r.emailTaken(email, id) {
		return nil, duplicateEmail()
	}

	updated := *existing
	fields.Apply(&updated)

	// updated_at must move forward even when the clock has not.
	now := r.now()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Microsecond)
	}
	updated.UpdatedAt = now

	r.store[id] = &updated
	result := updated
	return &result, nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return false, nil
	}
	delete(r.store, id)
	return true, nil
}

func (r *MemoryUserRepository) emailTaken(email string, excludeID int64) bool {
	for id, user := range r.store {
		if id != excludeID && user.Email == email {
			return true
		}
	}
	return false
}

func notFound() error {
	return sqlerr.HandleError(sqlerr.TableError(usersTable, gorm.ErrRecordNotFound))
}

func duplicateEmail() error {
	return sqlerr.HandleError(&pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "users_email_key"`,
		TableName:      usersTable,
		ConstraintName: "users_email_key",
	})
}
