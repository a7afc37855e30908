package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobtracker/internal/domain/application"
	"jobtracker/internal/domain/jobad"
	"jobtracker/internal/domain/recruiter"
	"jobtracker/internal/pkg/apperr"
	"jobtracker/internal/storage"
	"jobtracker/internal/testutil"
)

var pdfBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

type fixture struct {
	db    *gorm.DB
	svc   *Service
	apps  *application.Service
	ads   *jobad.Service
	store *storage.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := storage.NewMemoryStore()
	recruiters := recruiter.NewService(recruiter.NewRepository(db))
	ads := jobad.NewService(jobad.NewRepository(db), recruiters)
	apps := application.NewService(application.NewRepository(db), ads, nil, store, nil, nil)
	return &fixture{
		db:    db,
		svc:   NewService(NewRepository(db), apps, store, 1024, nil),
		apps:  apps,
		ads:   ads,
		store: store,
	}
}

var adSeq int

func (f *fixture) newApplication(t *testing.T) string {
	t.Helper()
	adSeq++
	ad, err := f.ads.Create(context.Background(), jobad.JobAdRequest{
		CompanyName:    "Acme",
		JobTitle:       "Backend Engineer",
		JobDescription: "Build APIs in Go.",
		PublishedAt:    "2024-03-01",
		JobType:        "full-time",
		Source:         "linkedin",
		URL:            fmt.Sprintf("https://acme.example/jobs/file-%d", adSeq),
	})
	require.NoError(t, err)
	app, err := f.apps.Create(context.Background(), application.CreateRequest{JobAdID: ad.ID})
	require.NoError(t, err)
	return app.ID
}

func (f *fixture) upload(t *testing.T, appID, name, mime string, content []byte) *File {
	t.Helper()
	file, err := f.svc.Upload(context.Background(), UploadInput{
		ApplicationID: appID,
		FileName:      name,
		DeclaredMIME:  mime,
		Content:       bytes.NewReader(content),
	})
	require.NoError(t, err)
	return file
}

var keyPattern = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}\.pdf$`)

func TestUpload_StoresBytesAndMetadata(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)

	got, err := f.svc.Upload(ctx, UploadInput{
		ApplicationID: appID,
		FileName:      "../../etc/My CV.pdf",
		DeclaredMIME:  "application/octet-stream",
		Source:        "AUTO",
		Category:      "Resume",
		Content:       bytes.NewReader(pdfBytes),
	})
	require.NoError(t, err)

	assert.Equal(t, "My CV.pdf", got.FileName)
	assert.Equal(t, "application/pdf", got.MimeType)
	assert.Equal(t, TypePDF, got.FileType)
	assert.Equal(t, SourceAuto, got.Source)
	assert.Equal(t, CategoryResume, got.Category)
	assert.EqualValues(t, len(pdfBytes), got.SizeBytes)
	assert.Regexp(t, keyPattern, got.StorageKey)
	assert.NotContains(t, got.StorageKey, "My CV")
	assert.True(t, f.store.Has(got.StorageKey))

	meta, rc, err := f.svc.Open(ctx, got.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)
	assert.Equal(t, got.StorageKey, meta.StorageKey)
}

func TestUpload_FileTypeFollowsMIME(t *testing.T) {
	f := newFixture(t)
	appID := f.newApplication(t)

	cases := []struct {
		name, mime string
		want       FileType
	}{
		{"a.pdf", "application/pdf", TypePDF},
		{"b.png", "image/png", TypeImage},
		{"c.doc", "application/msword", TypeDoc},
		{"d.docx", mimeDocx, TypeDoc},
		{"e.txt", "text/plain", TypeOther},
	}
	for _, tc := range cases {
		got := f.upload(t, appID, tc.name, tc.mime, []byte("some bytes"))
		assert.Equal(t, tc.want, got.FileType, tc.name)
		assert.Equal(t, tc.mime, got.MimeType, tc.name)
	}
}

func TestUpload_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)

	_, err := f.svc.Upload(ctx, UploadInput{ApplicationID: appID, FileName: "big.bin", Content: bytes.NewReader(make([]byte, 1025))})
	assert.ErrorIs(t, err, apperr.ErrTooLarge)

	exact := f.upload(t, appID, "exact.bin", "", make([]byte, 1024))
	assert.EqualValues(t, 1024, exact.SizeBytes)

	_, err = f.svc.Upload(ctx, UploadInput{ApplicationID: appID, FileName: "empty.pdf", Content: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = f.svc.Upload(ctx, UploadInput{ApplicationID: appID, FileName: "x.pdf", Source: "email", Content: bytes.NewReader(pdfBytes)})
	assert.True(t, apperr.IsValidation(err))

	_, err = f.svc.Upload(ctx, UploadInput{ApplicationID: "3f1d2c4b-5a6e-4f70-8a9b-0c1d2e3f4a5b", FileName: "x.pdf", Content: bytes.NewReader(pdfBytes)})
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	assert.Equal(t, 1, f.store.Len(), "only the accepted upload is stored")
}

func TestUpload_RowFailureRemovesBytes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)

	// The application disappears between the existence check and the insert.
	f.svc.apps = alwaysExists{}
	require.NoError(t, f.apps.Delete(ctx, appID))

	_, err := f.svc.Upload(ctx, UploadInput{ApplicationID: appID, FileName: "cv.pdf", Content: bytes.NewReader(pdfBytes)})
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Zero(t, f.store.Len())
}

type alwaysExists struct{}

func (alwaysExists) Exists(context.Context, string) (bool, error) { return true, nil }

func TestListAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)

	first := f.upload(t, appID, "cv.pdf", "application/pdf", pdfBytes)
	second := f.upload(t, appID, "letter.pdf", "application/pdf", pdfBytes)

	files, err := f.svc.List(ctx, appID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	ids := []string{files[0].ID, files[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	got, err := f.svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", got.FileName)

	_, err = f.svc.List(ctx, "3f1d2c4b-5a6e-4f70-8a9b-0c1d2e3f4a5b")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestOpen_MissingBytes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)
	file := f.upload(t, appID, "cv.pdf", "application/pdf", pdfBytes)

	require.NoError(t, f.store.Delete(ctx, file.StorageKey))
	_, _, err := f.svc.Open(ctx, file.ID)
	assert.ErrorIs(t, err, ErrContentNotFound)

	_, _, err = f.svc.Open(ctx, "3f1d2c4b-5a6e-4f70-8a9b-0c1d2e3f4a5b")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDelete_SecondDeleteIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)
	file := f.upload(t, appID, "cv.pdf", "application/pdf", pdfBytes)

	require.NoError(t, f.svc.Delete(ctx, file.ID))
	assert.False(t, f.store.Has(file.StorageKey))

	assert.ErrorIs(t, f.svc.Delete(ctx, file.ID), ErrFileNotFound)
	_, err := f.svc.Get(ctx, file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDelete_ToleratesAlreadyMissingBytes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)
	file := f.upload(t, appID, "cv.pdf", "application/pdf", pdfBytes)

	require.NoError(t, f.store.Delete(ctx, file.StorageKey))
	require.NoError(t, f.svc.Delete(ctx, file.ID))
}

type mockStore struct {
	mock.Mock
	storage.Store
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestDelete_ByteFailureKeepsMetadata(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)
	file := f.upload(t, appID, "cv.pdf", "application/pdf", pdfBytes)

	failing := &mockStore{Store: f.store}
	failing.On("Delete", mock.Anything, file.StorageKey).Return(errors.New("bucket unavailable")).Once()
	failing.On("Delete", mock.Anything, file.StorageKey).Return(nil).Once()
	f.svc.store = failing

	err := f.svc.Delete(ctx, file.ID)
	assert.ErrorContains(t, err, "bucket unavailable")
	_, err = f.svc.Get(ctx, file.ID)
	require.NoError(t, err, "metadata survives a failed byte removal")

	require.NoError(t, f.svc.Delete(ctx, file.ID))
	failing.AssertExpectations(t)
}

func TestSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)

	old := time.Now().Add(-48 * time.Hour)
	f.store.SetClock(func() time.Time { return old })
	kept := f.upload(t, appID, "cv.pdf", "application/pdf", pdfBytes)
	require.NoError(t, f.store.Put(ctx, "2024/01/01/orphan.pdf", strings.NewReader("orphan"), 6))

	f.store.SetClock(time.Now)
	require.NoError(t, f.store.Put(ctx, "2024/01/02/in-flight.pdf", strings.NewReader("fresh"), 5))

	report, err := f.svc.Sweep(ctx, SweepOptions{Grace: time.Hour, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, []string{"2024/01/01/orphan.pdf"}, report.Orphans)
	assert.Zero(t, report.Deleted)
	assert.True(t, f.store.Has("2024/01/01/orphan.pdf"))

	report, err = f.svc.Sweep(ctx, SweepOptions{Grace: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
	assert.EqualValues(t, 6, report.BytesRemoved)
	assert.False(t, f.store.Has("2024/01/01/orphan.pdf"))
	assert.True(t, f.store.Has("2024/01/02/in-flight.pdf"))
	assert.True(t, f.store.Has(kept.StorageKey))
}

func TestApplicationDeleteRemovesAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appID := f.newApplication(t)
	file := f.upload(t, appID, "cv.pdf", "application/pdf", pdfBytes)

	require.NoError(t, f.apps.Delete(ctx, appID))
	assert.False(t, f.store.Has(file.StorageKey))
	_, err := f.svc.Get(ctx, file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}
