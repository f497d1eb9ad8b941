package services

import (
	"fmt"
	"mime/multipart"

	"github.com/adi-nugroho/laundrylink-api/utils"
)

// ReceiptService handles storage of order receipt photos
type ReceiptService interface {
	// UploadReceipt validates and stores a receipt photo, returns the storage key
	UploadReceipt(fileHeader *multipart.FileHeader) (string, error)

	// GetReceiptURL generates a URL for accessing a stored receipt photo
	GetReceiptURL(key string) (string, error)

	// DeleteReceipt removes a receipt photo from storage
	DeleteReceipt(key string) error
}

// S3ReceiptService implements ReceiptService using AWS S3 for storage
type S3ReceiptService struct {
	s3Service S3Interface
}

var receiptServiceInstance ReceiptService

// InitReceiptService initializes the receipt service with S3 backend
func InitReceiptService(s3Service S3Interface) ReceiptService {
	receiptServiceInstance = &S3ReceiptService{
		s3Service: s3Service,
	}
	return receiptServiceInstance
}

// GetReceiptService returns the initialized receipt service instance
func GetReceiptService() ReceiptService {
	return receiptServiceInstance
}

// SetReceiptService sets the receipt service instance (primarily for testing)
func SetReceiptService(service ReceiptService) {
	receiptServiceInstance = service
}

// UploadReceipt validates and uploads a receipt photo to S3
func (s *S3ReceiptService) UploadReceipt(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}

	return key, nil
}

// GetReceiptURL generates a presigned URL for accessing a receipt photo
func (s *S3ReceiptService) GetReceiptURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(key)
	if err != nil {
		return "", fmt.Errorf("failed to generate receipt URL: %w", err)
	}

	return url, nil
}

// DeleteReceipt deletes a receipt photo from S3
func (s *S3ReceiptService) DeleteReceipt(key string) error {
	if key == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(key); err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}

	return nil
}
