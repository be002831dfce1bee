package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type streamServiceMock struct {
	announcementReq models.CreateAnnouncementRequest
	messageReq      models.SendMessageRequest
	listed          string
	thread          string
	err             error
}

func (m *streamServiceMock) Create(ctx context.Context, actor models.Identity, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	m.announcementReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Announcement{ID: "1", Code: req.Code, Body: req.Body, Owner: actor.Email, Role: actor.Role}, nil
}

func (m *streamServiceMock) List(ctx context.Context, rawCodes string) ([]models.AnnouncementView, error) {
	m.listed = rawCodes
	return []models.AnnouncementView{}, nil
}

func (m *streamServiceMock) Send(ctx context.Context, actor models.Identity, req models.SendMessageRequest) (*models.DiscussionMessage, error) {
	m.messageReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.DiscussionMessage{Code: req.Code, Email: actor.Email, Message: req.Message}, nil
}

func (m *streamServiceMock) Thread(ctx context.Context, code string) ([]models.DiscussionView, error) {
	m.thread = code
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	return []models.DiscussionView{}, nil
}

func TestStreamHandlerAnnouncements(t *testing.T) {
	mock := &streamServiceMock{}
	h := NewStreamHandler(mock, mock)
	router := newTestRouter(guruClaims)
	router.POST("/pengumuman/create", h.CreateAnnouncement)
	router.GET("/pengumuman", h.ListAnnouncements)

	rec := postForm(t, router, "/pengumuman/create", "kode=AB12CD&pengumuman=Ujian+besok")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Pengumuman berhasil dibuat.", decodeEnvelope(t, rec).Message)
	assert.Equal(t, "Ujian besok", mock.announcementReq.Body)

	mock.err = appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, "Kelas tidak ditemukan."), appErrors.ResultError)
	rec = postForm(t, router, "/pengumuman/create", "kode=ZZ&pengumuman=x")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", decodeEnvelope(t, rec).Status)

	rec = perform(router, http.MethodGet, "/pengumuman?kelas=AB12CD")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AB12CD", mock.listed)
}

func TestStreamHandlerDiscussion(t *testing.T) {
	mock := &streamServiceMock{}
	h := NewStreamHandler(mock, mock)
	router := newTestRouter(siswaClaims)
	router.GET("/diskusi", h.Thread)
	router.GET("/diskusi/send", h.Send)

	rec := perform(router, http.MethodGet, "/diskusi/send?kode=AB12CD&pesan=Halo")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Pesan berhasil dibuat.", decodeEnvelope(t, rec).Message)
	assert.Equal(t, models.SendMessageRequest{Code: "AB12CD", Message: "Halo"}, mock.messageReq)

	rec = perform(router, http.MethodGet, "/diskusi?id=AB12CD")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	rec = perform(router, http.MethodGet, "/diskusi")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
