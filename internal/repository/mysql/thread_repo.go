package mysql

import (
	"context"

	"threadnest/internal/model"

	"gorm.io/gorm"
)

type ThreadRepository struct {
	DB *gorm.DB
}

func (r *ThreadRepository) Create(ctx context.Context, thread *model.Thread) error {
	return r.DB.WithContext(ctx).Create(thread).Error
}

func (r *ThreadRepository) FindByID(ctx context.Context, id uint64) (*model.Thread, error) {
	var thread model.Thread
	err := r.DB.WithContext(ctx).First(&thread, id).Error
	return &thread, err
}

// ListTopLevel 首页帖子分页: top-level threads only, newest first, with the
// total count for the hasNext computation.
func (r *ThreadRepository) ListTopLevel(ctx context.Context, offset, limit int) ([]model.Thread, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Thread{}).Where("parent_id IS NULL")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Thread
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *ThreadRepository) ListReplies(ctx context.Context, parentID uint64) ([]model.Thread, error) {
	var list []model.Thread
	err := r.DB.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
