package mysql

import (
	"context"

	"threadnest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

// Upsert 幂等写入: keyed on subject_id, repeated onboarding submits just
// overwrite the profile fields.
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "subject_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "name", "image", "bio", "onboarded",
		}),
	}).Create(user).Error
}

func (r *UserRepository) FindBySubject(ctx context.Context, subjectID string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("subject_id = ?", subjectID).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return &user, err
}
