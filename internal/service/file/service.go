package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/officehr/payroll-backend-go/internal/pkg/storage"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

var (
	documentExts = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"}
	receiptExts  = []string{".pdf", ".jpg", ".jpeg", ".png", ".gif"}
)

type FileService interface {
	// UploadDocument stores an employee document and returns its storage key.
	UploadDocument(ctx context.Context, employeeID string, file io.Reader, filename string, documentType string) (string, error)
	UploadReceipt(ctx context.Context, expenseID string, file io.Reader, filename string) (string, error)
	// SavePayslip stores a rendered payslip under payslips/{year}/{month}/.
	SavePayslip(ctx context.Context, year, month int, filename string, content []byte) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadDocument uploads an employee document
func (s *fileServiceImpl) UploadDocument(ctx context.Context, employeeID string, file io.Reader, filename string, documentType string) (string, error) {
	ext, err := checkExt(filename, documentExts)
	if err != nil {
		return "", err
	}

	slug := strings.ToLower(strings.ReplaceAll(documentType, " ", "-"))
	newFilename := fmt.Sprintf("%s-%s%s", slug, uuid.New().String(), ext)
	path := filepath.Join("documents", employeeID, newFilename)

	return s.storage.Upload(ctx, file, path, contentTypeFor(ext))
}

// UploadReceipt uploads an expense receipt
func (s *fileServiceImpl) UploadReceipt(ctx context.Context, expenseID string, file io.Reader, filename string) (string, error) {
	ext, err := checkExt(filename, receiptExts)
	if err != nil {
		return "", err
	}

	newFilename := fmt.Sprintf("%s-%s%s", expenseID, uuid.New().String(), ext)
	return s.storage.Upload(ctx, file, filepath.Join("receipts", newFilename), contentTypeFor(ext))
}

func (s *fileServiceImpl) SavePayslip(ctx context.Context, year, month int, filename string, content []byte) (string, error) {
	path := filepath.Join("payslips", fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), filename)
	return s.storage.Upload(ctx, bytes.NewReader(content), path, "application/pdf")
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) GetFileURL(path string) string {
	return s.storage.GetURL(path)
}

func checkExt(filename string, allowed []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFileType, ext, strings.Join(allowed, ", "))
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
