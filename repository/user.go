package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kochabx/campus/errors"
	"github.com/kochabx/campus/model"
)

// UserRepo is the relational-store access layer for principals.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a user repository.
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// FindByHandle loads a user with its role and profile. Returns a 404-class
// error when the handle does not exist.
func (r *UserRepo) FindByHandle(ctx context.Context, handle string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Profile").
		Where("handle = ?", handle).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.Internal("query user").WithCause(err)
	}
	return &user, nil
}

// Exists reports whether a principal with the handle or the email already
// exists. Both are unique across all principals.
func (r *UserRepo) Exists(ctx context.Context, handle, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("handle = ? OR email = ?", handle, email).
		Count(&count).Error
	if err != nil {
		return false, errors.Internal("query user").WithCause(err)
	}
	return count > 0, nil
}

// FindRole looks up a role reference row by its canonical name.
func (r *UserRepo) FindRole(ctx context.Context, role model.Role) (*model.RoleRecord, error) {
	var record model.RoleRecord
	err := r.db.WithContext(ctx).
		Where("name = ?", role.String()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.BadRequest("role does not exist")
		}
		return nil, errors.Internal("query role").WithCause(err)
	}
	return &record, nil
}

// Create inserts a user and its profile in one transaction; either both rows
// land or neither does.
func (r *UserRepo) Create(ctx context.Context, user *model.User, profile *model.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	if err != nil {
		return errors.Internal("create user").WithCause(err)
	}
	return nil
}

// List returns all principals with role and profile. Credential hashes stay
// out of every serialized form.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Profile").
		Order("handle").
		Find(&users).Error
	if err != nil {
		return nil, errors.Internal("list users").WithCause(err)
	}
	return users, nil
}

// Delete removes a principal and its dependent rows. Dependents are deleted
// explicitly inside one transaction so the behavior does not depend on the
// driver enforcing foreign-key cascades.
func (r *UserRepo) Delete(ctx context.Context, handle string) error {
	user, err := r.FindByHandle(ctx, handle)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var courseIDs []uint
		if err := tx.Model(&model.Course{}).
			Where("instructor_id = ?", user.ID).
			Pluck("id", &courseIDs).Error; err != nil {
			return err
		}

		if len(courseIDs) > 0 {
			if err := tx.Where("course_id IN ?", courseIDs).Delete(&model.Module{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", courseIDs).Delete(&model.Course{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&model.Profile{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.User{}, user.ID).Error
	})
	if err != nil {
		return errors.Internal("delete user").WithCause(err)
	}
	return nil
}
