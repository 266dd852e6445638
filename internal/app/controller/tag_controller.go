package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram-team/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram-team/foodgram-backend/internal/errors"
	"github.com/foodgram-team/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{
		tagService: tagService,
	}
}

// ListTags returns all tags
// GET /api/tags
func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tags, err := ctrl.tagService.ListTags()
	if err != nil {
		log.Error("Failed to list tags", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	results := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		results = append(results, tagResponse(tag))
	}

	c.JSON(http.StatusOK, results)
}

// GetTag returns one tag
// GET /api/tags/:id
func (ctrl *TagController) GetTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tagID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Tag id must be a number")
		return
	}

	tag, err := ctrl.tagService.GetTag(uint(tagID))
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
			return
		}
		log.Error("Failed to fetch tag", err, map[string]interface{}{
			"tag_id": tagID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, tagResponse(*tag))
}
