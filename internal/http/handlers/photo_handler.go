package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria-backend/internal/http/response"
	"github.com/memoria-app/memoria-backend/internal/service"
)

// PhotoHandler is the HTTP layer for evidence photos.
type PhotoHandler struct {
	photos *service.PhotoService
}

// NewPhotoHandler creates the handler.
func NewPhotoHandler(photos *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// Upload handles POST /api/orders/:id/photos. Multipart form with a "file"
// part and a "kind" field, before or after.
func (h *PhotoHandler) Upload(c *gin.Context) {
	userID, role, err := identity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "the file field is required")
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "the file cannot be empty")
		return
	}

	kind := c.PostForm("kind")

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "failed to open the uploaded file")
		return
	}
	defer src.Close()

	photo, err := h.photos.UploadPhoto(c.Request.Context(), orderID, userID, role, kind, file.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, photo)
}

// List handles GET /api/orders/:id/photos.
func (h *PhotoHandler) List(c *gin.Context) {
	userID, role, err := identity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	photos, err := h.photos.GetOrderPhotos(c.Request.Context(), orderID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, photos)
}
