package service

import (
	"errors"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag with this name, color or slug already exists")
)

// TagInput carries a tag submission; Color is a #RRGGBB hex string.
type TagInput struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
	Slug  string `json:"slug" binding:"required"`
}

type TagService interface {
	ListTags() ([]model.Tag, error)
	GetTag(id uint) (*model.Tag, error)
	CreateTag(input TagInput) (*model.Tag, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) ListTags() ([]model.Tag, error) {
	return s.tagRepo.FindAll()
}

func (s *tagService) GetTag(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) CreateTag(input TagInput) (*model.Tag, error) {
	color, err := util.ParseColor(input.Color)
	if err != nil {
		return nil, &ValidationError{Field: "color", Reason: "must be a hex color code like #E26C2D"}
	}

	tag := &model.Tag{
		Name:  input.Name,
		Color: color,
		Slug:  input.Slug,
	}
	if err := s.tagRepo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	return tag, nil
}
