package repositories

import (
	"context"

	"ecell/app/models/contact"
	"ecell/app/models/subscriber"

	"gorm.io/gorm"
)

// ContactRepository 联系留言仓库
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建仓库实例
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create 保存留言
func (r *ContactRepository) Create(ctx context.Context, m *contact.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// SubscriberRepository 订阅者仓库
type SubscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository 创建仓库实例
func NewSubscriberRepository(db *gorm.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Create 保存订阅
func (r *SubscriberRepository) Create(ctx context.Context, s *subscriber.Subscriber) error {
	return r.db.WithContext(ctx).Create(s).Error
}
