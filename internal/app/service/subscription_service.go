package service

import (
	"errors"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSubscriptionExists   = errors.New("already subscribed to this author")
	ErrSubscriptionNotFound = errors.New("not subscribed to this author")
	ErrAuthorNotFound       = errors.New("author not found")
)

// SubscribedAuthor is an author the user follows together with a preview of
// that author's recipes.
type SubscribedAuthor struct {
	Author       model.User
	Recipes      []model.Recipe
	RecipesCount int64
}

type SubscriptionService interface {
	Subscribe(userID, authorID uint) (*SubscribedAuthor, error)
	Unsubscribe(userID, authorID uint) error
	// ListSubscriptions pages through followed authors; recipesLimit caps
	// the recipe preview per author, 0 meaning no cap.
	ListSubscriptions(userID uint, offset, limit, recipesLimit int) ([]SubscribedAuthor, int64, error)
	IsSubscribed(userID, authorID uint) (bool, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	recipeRepo       repository.RecipeRepository
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
	}
}

func (s *subscriptionService) Subscribe(userID, authorID uint) (*SubscribedAuthor, error) {
	logger.Info("Creating subscription", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	_, err = s.subscriptionRepo.FindByUserAndAuthor(userID, authorID)
	if err == nil {
		return nil, ErrSubscriptionExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subscription := &model.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.subscriptionRepo.Create(subscription); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSubscriptionExists
		}
		return nil, err
	}

	entry, err := s.buildEntry(*author, 0)
	if err != nil {
		return nil, err
	}

	logger.Info("Subscription created", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return entry, nil
}

func (s *subscriptionService) Unsubscribe(userID, authorID uint) error {
	logger.Info("Removing subscription", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	if _, err := s.userRepo.FindByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}

	if _, err := s.subscriptionRepo.FindByUserAndAuthor(userID, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	return s.subscriptionRepo.Delete(userID, authorID)
}

func (s *subscriptionService) ListSubscriptions(userID uint, offset, limit, recipesLimit int) ([]SubscribedAuthor, int64, error) {
	subscriptions, total, err := s.subscriptionRepo.FindByUserID(userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]SubscribedAuthor, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		entry, err := s.buildEntry(subscription.Author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, *entry)
	}
	return entries, total, nil
}

func (s *subscriptionService) IsSubscribed(userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	_, err := s.subscriptionRepo.FindByUserAndAuthor(userID, authorID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *subscriptionService) buildEntry(author model.User, recipesLimit int) (*SubscribedAuthor, error) {
	recipes, err := s.recipeRepo.FindByAuthorID(author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipeRepo.CountByAuthorID(author.ID)
	if err != nil {
		return nil, err
	}
	return &SubscribedAuthor{
		Author:       author,
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}
