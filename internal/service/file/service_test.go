package file

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/officehr/payroll-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileService(t *testing.T) (FileService, storage.FileStorage) {
	t.Helper()
	st, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	return NewFileService(st), st
}

func TestUploadDocument(t *testing.T) {
	svc, st := newTestFileService(t)
	ctx := context.Background()

	key, err := svc.UploadDocument(ctx, "emp-1", strings.NewReader("scan"), "Passport.PDF", "ID Proof")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "documents/emp-1/id-proof-"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)

	rc, err := st.Download(ctx, key)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "scan", string(body))

	_, err = svc.UploadDocument(ctx, "emp-1", strings.NewReader("x"), "run.exe", "Other")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestSavePayslip(t *testing.T) {
	svc, _ := newTestFileService(t)

	key, err := svc.SavePayslip(context.Background(), 2024, 3, "payslip-EMP000001-3-2024.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "payslips/2024/03/payslip-EMP000001-3-2024.pdf", key)
	assert.Equal(t, "http://localhost/uploads/payslips/2024/03/payslip-EMP000001-3-2024.pdf", svc.GetFileURL(key))
}

func TestUploadReceipt_RejectsDocx(t *testing.T) {
	svc, _ := newTestFileService(t)
	_, err := svc.UploadReceipt(context.Background(), "exp-1", strings.NewReader("x"), "receipt.docx")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}
