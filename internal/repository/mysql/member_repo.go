package mysql

import (
	"context"

	"threadnest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

// AddMember 幂等插入: 若已存在 (community_id, member_id) 则不报错
func (r *CommunityMemberRepository) AddMember(ctx context.Context, member *model.CommunityMember) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "member_id"}},
		DoNothing: true,
	}).Create(member).Error
}

// RemoveMember deletes the row if present; removing a non-member is a no-op.
func (r *CommunityMemberRepository) RemoveMember(ctx context.Context, communityID uint64, memberID string) error {
	return r.DB.WithContext(ctx).
		Where("community_id = ? AND member_id = ?", communityID, memberID).
		Delete(&model.CommunityMember{}).Error
}

func (r *CommunityMemberRepository) IsMember(ctx context.Context, communityID uint64, memberID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("community_id = ? AND member_id = ?", communityID, memberID).
		Count(&count).Error
	return count > 0, err
}

func (r *CommunityMemberRepository) ListMemberIDs(ctx context.Context, communityID uint64) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("community_id = ?", communityID).
		Order("id").
		Pluck("member_id", &ids).Error
	return ids, err
}

func (r *CommunityMemberRepository) CountMembers(ctx context.Context, communityID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("community_id = ?", communityID).
		Count(&count).Error
	return count, err
}
