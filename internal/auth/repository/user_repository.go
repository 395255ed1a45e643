package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	authdomain "caspometer-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewUserRepository creates a new instance of userRepository. A zero
// queryTimeout leaves deadlines to the caller's context.
func NewUserRepository(db *gorm.DB, queryTimeout time.Duration) UserRepository {
	return &userRepository{
		db:           db,
		queryTimeout: queryTimeout,
	}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) withTimeout(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return r.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	return r.db.WithContext(ctx), cancel
}

func (r *userRepository) Create(ctx context.Context, user *authdomain.User) error {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = NormalizeEmail(user.Email)
	now := time.Now().UTC()
	if user.RegisterDate.IsZero() {
		user.RegisterDate = now
	}
	user.UpdatedAt = now
	return translate(db.Create(user).Error)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	var user authdomain.User
	err := db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	var user authdomain.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *authdomain.User) error {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	user.Email = NormalizeEmail(user.Email)
	user.UpdatedAt = time.Now().UTC()
	return translate(db.Save(user).Error)
}

func (r *userRepository) ForEach(ctx context.Context, batchSize int, fn func(*authdomain.User) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	var batch []*authdomain.User
	return r.db.WithContext(ctx).Order("id").FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
		for _, u := range batch {
			if err := fn(u); err != nil {
				return err
			}
		}
		return nil
	}).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}
