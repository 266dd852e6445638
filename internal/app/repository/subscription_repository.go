package repository

import (
	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(subscription *model.Subscription) error
	FindByUserAndAuthor(userID, authorID uint) (*model.Subscription, error)
	FindByUserID(userID uint, offset, limit int) ([]model.Subscription, int64, error)
	Delete(userID, authorID uint) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(subscription *model.Subscription) error {
	logger.Debug("Creating subscription in database", map[string]interface{}{
		"user_id":   subscription.UserID,
		"author_id": subscription.AuthorID,
	})

	if err := r.db.Create(subscription).Error; err != nil {
		logger.Error("Failed to create subscription in database", err, map[string]interface{}{
			"user_id":   subscription.UserID,
			"author_id": subscription.AuthorID,
		})
		return err
	}
	return nil
}

func (r *subscriptionRepository) FindByUserAndAuthor(userID, authorID uint) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *subscriptionRepository) FindByUserID(userID uint, offset, limit int) ([]model.Subscription, int64, error) {
	var total int64
	err := r.db.Model(&model.Subscription{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	query := r.db.Where("user_id = ?", userID).Preload("Author").Order("id ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var subscriptions []model.Subscription
	if err := query.Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to list subscriptions in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}
	return subscriptions, total, nil
}

func (r *subscriptionRepository) Delete(userID, authorID uint) error {
	logger.Debug("Deleting subscription from database", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	err := r.db.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Subscription{}).Error
	if err != nil {
		logger.Error("Failed to delete subscription from database", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return err
	}
	return nil
}
