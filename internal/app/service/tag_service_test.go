package service

import (
	"testing"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTagServiceTest(t *testing.T) (TagService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewTagService(repository.NewTagRepository(testDB)), testDB
}

func TestTagService_CreateTag(t *testing.T) {
	svc, _ := setupTagServiceTest(t)

	tag, err := svc.CreateTag(TagInput{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"})
	require.NoError(t, err)
	assert.Equal(t, uint32(0xE26C2D), tag.Color)
	assert.NotZero(t, tag.ID)
}

func TestTagService_CreateTag_InvalidColor(t *testing.T) {
	svc, _ := setupTagServiceTest(t)

	_, err := svc.CreateTag(TagInput{Name: "Breakfast", Color: "orange", Slug: "breakfast"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "color", vErr.Field)
}

func TestTagService_CreateTag_DuplicateColor(t *testing.T) {
	svc, _ := setupTagServiceTest(t)

	_, err := svc.CreateTag(TagInput{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"})
	require.NoError(t, err)

	// Same color under a different name still collides
	_, err = svc.CreateTag(TagInput{Name: "Brunch", Color: "#E26C2D", Slug: "brunch"})
	assert.ErrorIs(t, err, ErrTagExists)
}

func TestTagService_CreateTag_DuplicateName(t *testing.T) {
	svc, _ := setupTagServiceTest(t)

	_, err := svc.CreateTag(TagInput{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"})
	require.NoError(t, err)

	_, err = svc.CreateTag(TagInput{Name: "Breakfast", Color: "#49B64E", Slug: "breakfast-2"})
	assert.ErrorIs(t, err, ErrTagExists)
}

func TestTagService_ListAndGet(t *testing.T) {
	svc, testDB := setupTagServiceTest(t)

	require.NoError(t, testDB.Create(&model.Tag{Name: "Lunch", Color: 0x49B64E, Slug: "lunch"}).Error)
	require.NoError(t, testDB.Create(&model.Tag{Name: "Dinner", Color: 0x8775D2, Slug: "dinner"}).Error)

	tags, err := svc.ListTags()
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	tag, err := svc.GetTag(tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", tag.Name)

	_, err = svc.GetTag(9999)
	assert.ErrorIs(t, err, ErrTagNotFound)
}
