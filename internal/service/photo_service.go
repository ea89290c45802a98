package service

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
)

var allowedPhotoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heif": true,
}

// PhotoStore persists photo records.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Photo, error)
}

// FileStorage writes uploaded files to the media store.
type FileStorage interface {
	Save(ctx context.Context, orderID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, storageID string) error
}

// OrderReader resolves an order with the caller's visibility rules applied.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID, userID uuid.UUID, role string) (*models.Order, error)
}

// PhotoService handles evidence photo uploads. Only the provider assigned
// to an order may upload, and only while the work is in progress; anyone
// who can see the order can see its photos.
type PhotoService struct {
	photos  PhotoStore
	orders  OrderReader
	storage FileStorage
	baseURL string
}

// NewPhotoService creates the photo service. baseURL is prepended to the
// stored relative path to build the public photo URL.
func NewPhotoService(photos PhotoStore, orders OrderReader, storage FileStorage, baseURL string) *PhotoService {
	return &PhotoService{photos: photos, orders: orders, storage: storage, baseURL: baseURL}
}

// UploadPhoto stores one evidence photo for an order.
func (s *PhotoService) UploadPhoto(ctx context.Context, orderID, userID uuid.UUID, role, kind, filename string, src io.ReadSeeker) (*models.Photo, error) {
	if kind != models.PhotoKindBefore && kind != models.PhotoKindAfter {
		return nil, apperror.New(apperror.ErrCodeValidation, "kind must be before or after")
	}

	order, err := s.orders.GetOrder(ctx, orderID, userID, role)
	if err != nil {
		return nil, err
	}

	if order.ProviderID == nil || *order.ProviderID != userID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "only the assigned prestataire can upload photos")
	}

	if order.Status != models.OrderStatusAccepted && order.Status != models.OrderStatusAwaitingValidation {
		return nil, apperror.ErrInvalidStatus
	}

	if err := sniffImage(src); err != nil {
		return nil, err
	}

	storageID, _, err := s.storage.Save(ctx, orderID, filename, src)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to store photo")
	}

	photo := &models.Photo{
		OrderID:   orderID,
		Kind:      kind,
		URL:       s.baseURL + "/" + path.Clean(storageID),
		StorageID: storageID,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		_ = s.storage.Delete(ctx, storageID)
		return nil, err
	}
	return photo, nil
}

// GetOrderPhotos lists the photos of an order the caller is allowed to see.
func (s *PhotoService) GetOrderPhotos(ctx context.Context, orderID, userID uuid.UUID, role string) ([]models.Photo, error) {
	if _, err := s.orders.GetOrder(ctx, orderID, userID, role); err != nil {
		return nil, err
	}
	return s.photos.ListByOrder(ctx, orderID)
}

// sniffImage checks the magic bytes and rewinds the reader for storage.
func sniffImage(src io.ReadSeeker) error {
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return apperror.New(apperror.ErrCodeBadRequest, "failed to read the uploaded file")
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown || !allowedPhotoMimeTypes[kind.MIME.Value] {
		return apperror.New(apperror.ErrCodeValidation, "only jpeg, png, webp and heif images are accepted")
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return apperror.New(apperror.ErrCodeInternal, "failed to rewind the uploaded file")
	}
	return nil
}
