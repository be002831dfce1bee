package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type contentServiceMock struct {
	assignmentReq models.CreateAssignmentRequest
	materialReq   models.CreateMaterialRequest
	materialKind  models.IDKind
	listed        string
	feedCode      string
	err           error
}

func (m *contentServiceMock) CreateAssignment(ctx context.Context, actor models.Identity, req models.CreateAssignmentRequest) (*models.Assignment, string, error) {
	m.assignmentReq = req
	if m.err != nil {
		return nil, "", m.err
	}
	return &models.Assignment{ID: "TGS-AAAAA", Code: req.Code, Title: req.Title}, "Tugas berhasil diunggah", nil
}

func (m *contentServiceMock) CreateMaterial(ctx context.Context, actor models.Identity, kind models.IDKind, req models.CreateMaterialRequest) (*models.Material, string, error) {
	m.materialReq, m.materialKind = req, kind
	if m.err != nil {
		return nil, "", m.err
	}
	return &models.Material{ID: "QZ-AAAAA", Code: req.Code}, "Quiz berhasil diupload", nil
}

func (m *contentServiceMock) ListAssignments(ctx context.Context, rawCodes string) ([]models.AssignmentView, error) {
	m.listed = rawCodes
	return []models.AssignmentView{}, nil
}

func (m *contentServiceMock) ClassFeed(ctx context.Context, code string) ([]models.FeedItem, error) {
	m.feedCode = code
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kodeKelas is required")
	}
	return []models.FeedItem{{Type: models.FeedAnnouncement, Code: code}}, nil
}

func postForm(t *testing.T, handler http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestContentHandlerCreateAssignment(t *testing.T) {
	mock := &contentServiceMock{}
	h := NewContentHandler(mock, mock)
	router := newTestRouter(guruClaims)
	router.POST("/tugas/create", h.CreateAssignment)

	rec := postForm(t, router, "/tugas/create", "kelas=AB12CD&nama=Latihan&deskripsi=Soal&deadline=2026-11-01T23:59")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tugas berhasil diunggah", decodeEnvelope(t, rec).Message)
	require.NotNil(t, mock.assignmentReq.Deadline)
	assert.Equal(t, 2026, mock.assignmentReq.Deadline.Year())
	assert.Equal(t, time.November, mock.assignmentReq.Deadline.Month())

	rec = postForm(t, router, "/tugas/create", "kelas=AB12CD&deadline=besok")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentHandlerCreateQuiz(t *testing.T) {
	mock := &contentServiceMock{}
	h := NewContentHandler(mock, mock)
	router := newTestRouter(guruClaims)
	router.POST("/quiz/create", h.CreateMaterial(models.KindQuiz))

	rec := postForm(t, router, "/quiz/create", "kelas=AB12CD&nama=Kuis&option=link&content=https://example.com/kuis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.KindQuiz, mock.materialKind)
	assert.Equal(t, models.ContentLink, mock.materialReq.Type)

	mock.err = appErrors.Clone(appErrors.ErrForbidden, "Hanya pembimbing kelas yang dapat mengunggah konten.")
	rec = postForm(t, router, "/quiz/create", "kelas=AB12CD&nama=Kuis&option=link&content=https://example.com/kuis")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	anonymous := newTestRouter(nil)
	anonymous.POST("/quiz/create", h.CreateMaterial(models.KindQuiz))
	rec = postForm(t, anonymous, "/quiz/create", "kelas=AB12CD")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContentHandlerListsAndFeed(t *testing.T) {
	mock := &contentServiceMock{}
	h := NewContentHandler(mock, mock)
	router := newTestRouter(guruClaims)
	router.GET("/tugas", h.ListAssignments)
	router.GET("/data-kelas", h.ClassFeed)

	rec := perform(router, http.MethodGet, "/tugas?kelas=AB12CD,XY34ZW")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
	assert.Equal(t, "AB12CD,XY34ZW", mock.listed)

	rec = perform(router, http.MethodGet, "/data-kelas?kodeKelas=AB12CD")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"pengumuman"`)

	rec = perform(router, http.MethodGet, "/data-kelas")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
