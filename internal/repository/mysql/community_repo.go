package mysql

import (
	"context"
	"errors"

	"threadnest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Upsert 幂等创建: keyed on org_id. Replayed organization.created events
// overwrite the same row instead of failing on the unique index.
func (r *CommunityRepository) Upsert(ctx context.Context, c *model.Community) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "slug", "image", "bio", "created_by",
		}),
	}).Create(c).Error
}

func (r *CommunityRepository) FindByOrgID(ctx context.Context, orgID string) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).Where("org_id = ?", orgID).First(&community).Error
	return &community, err
}

// UpdateInfo assigns the mutable fields unconditionally. RowsAffected == 0
// (org unknown locally) is not an error; the next created event will upsert it.
func (r *CommunityRepository) UpdateInfo(ctx context.Context, orgID, name, slug, image string) error {
	return r.DB.WithContext(ctx).Model(&model.Community{}).
		Where("org_id = ?", orgID).
		Updates(map[string]any{"name": name, "slug": slug, "image": image}).Error
}

// List returns one page plus the total count for the hasNext computation.
// search matches name or slug as a case-insensitive substring.
func (r *CommunityRepository) List(ctx context.Context, offset, limit int, search string) ([]model.Community, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Community{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Community
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// DeleteByOrgID 幂等硬删除: the community, its membership rows and its
// threads go in one transaction. Deleting an absent org is a no-op.
func (r *CommunityRepository) DeleteByOrgID(ctx context.Context, orgID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var community model.Community
		err := tx.Where("org_id = ?", orgID).First(&community).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("community_id = ?", community.ID).
			Delete(&model.CommunityMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("org_id = ?", orgID).
			Delete(&model.Thread{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Community{}, community.ID).Error
	})
}
