package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type contentRepoStub struct {
	assignments []models.Assignment
	materials   map[models.IDKind][]models.Material
	taken       map[string]bool
	listed      []string
	items       []models.AssignmentView
	err         error
}

func newContentRepoStub() *contentRepoStub {
	return &contentRepoStub{materials: map[models.IDKind][]models.Material{}, taken: map[string]bool{}}
}

func (c *contentRepoStub) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if c.err != nil {
		return c.err
	}
	if c.taken[assignment.ID] {
		return &pq.Error{Code: "23505"}
	}
	c.assignments = append(c.assignments, *assignment)
	return nil
}

func (c *contentRepoStub) CreateMaterial(ctx context.Context, kind models.IDKind, material *models.Material) error {
	if c.err != nil {
		return c.err
	}
	if c.taken[material.ID] {
		return &pq.Error{Code: "23505"}
	}
	c.materials[kind] = append(c.materials[kind], *material)
	return nil
}

func (c *contentRepoStub) ListAssignmentsByCodes(ctx context.Context, codes []string) ([]models.AssignmentView, error) {
	c.listed = codes
	return c.items, c.err
}

type idStub struct {
	ids   []string
	calls int
	err   error
}

func (i *idStub) Generate(ctx context.Context, kind models.IDKind) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	id := i.ids[i.calls%len(i.ids)]
	i.calls++
	return id, nil
}

func newContentServiceForTest(t *testing.T, ids *idStub) (*ContentService, *contentRepoStub) {
	t.Helper()
	db := newMemoryDB()
	seedClassWithOwner(db, "AB12CD", "Matematika")
	repo := newContentRepoStub()
	return NewContentService(repo, memoryClassRepo{db: db}, ids, nil, nil), repo
}

func TestContentCreateAssignment(t *testing.T) {
	svc, repo := newContentServiceForTest(t, &idStub{ids: []string{"TGS-AAAAA"}})
	deadline := time.Date(2026, 11, 1, 23, 59, 0, 0, time.UTC)

	assignment, msg, err := svc.CreateAssignment(context.Background(), guru, models.CreateAssignmentRequest{
		Code:        "AB12CD",
		Title:       " Latihan 1 ",
		Description: "Kerjakan nomor 1-5",
		Deadline:    &deadline,
		Link:        "https://drive.example.com/latihan",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tugas berhasil diunggah", msg)
	assert.Equal(t, "TGS-AAAAA", assignment.ID)
	assert.Equal(t, "Latihan 1", assignment.Title)
	assert.Equal(t, guru.Email, assignment.Owner)
	require.NotNil(t, assignment.Link)
	require.Len(t, repo.assignments, 1)
}

func TestContentRetriesTakenID(t *testing.T) {
	ids := &idStub{ids: []string{"MTI-TAKEN", "MTI-FRESH"}}
	svc, repo := newContentServiceForTest(t, ids)
	repo.taken["MTI-TAKEN"] = true

	material, msg, err := svc.CreateMaterial(context.Background(), guru, models.KindMaterial, models.CreateMaterialRequest{
		Code: "AB12CD", Title: "Bab 1", Type: models.ContentLink, Link: "https://example.com/bab1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Materi berhasil diupload", msg)
	assert.Equal(t, "MTI-FRESH", material.ID)
	assert.Equal(t, 2, ids.calls)
	assert.Len(t, repo.materials[models.KindMaterial], 1)
}

func TestContentGivesUpAfterRepeatedCollisions(t *testing.T) {
	ids := &idStub{ids: []string{"QZ-TAKEN"}}
	svc, repo := newContentServiceForTest(t, ids)
	repo.taken["QZ-TAKEN"] = true

	_, _, err := svc.CreateMaterial(context.Background(), guru, models.KindQuiz, models.CreateMaterialRequest{
		Code: "AB12CD", Title: "Kuis 1", Type: models.ContentLink, Link: "https://example.com/kuis",
	})
	require.Error(t, err)
	assert.Equal(t, "Quiz gagal diupload", appErrors.FromError(err).Message)
	assert.Equal(t, contentInsertAttempts, ids.calls)
}

func TestContentValidationAndAccess(t *testing.T) {
	svc, repo := newContentServiceForTest(t, &idStub{ids: []string{"QZ-AAAAA"}})
	ctx := context.Background()

	_, _, err := svc.CreateMaterial(ctx, guru, models.KindQuiz, models.CreateMaterialRequest{Code: "AB12CD", Title: "Kuis", Type: models.ContentFile})
	assert.Equal(t, "Kuis tidak valid atau data kosong", appErrors.FromError(err).Message)

	_, _, err = svc.CreateMaterial(ctx, guru, models.IDKind("video"), models.CreateMaterialRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnknownKind))

	_, _, err = svc.CreateAssignment(ctx, siswa, models.CreateAssignmentRequest{Code: "AB12CD", Title: "Tugas"})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, _, err = svc.CreateAssignment(ctx, guru, models.CreateAssignmentRequest{Code: "ZZZZZZ", Title: "Tugas"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	repo.err = errors.New("insert failed")
	_, _, err = svc.CreateAssignment(ctx, guru, models.CreateAssignmentRequest{Code: "AB12CD", Title: "Tugas"})
	assert.Equal(t, "Gagal membuat tugas", appErrors.FromError(err).Message)
}

func TestContentGeneratorErrorPassesThrough(t *testing.T) {
	svc, _ := newContentServiceForTest(t, &idStub{err: appErrors.ErrGenerationExhausted})

	_, _, err := svc.CreateAssignment(context.Background(), guru, models.CreateAssignmentRequest{Code: "AB12CD", Title: "Tugas"})
	assert.True(t, appErrors.Is(err, appErrors.ErrGenerationExhausted))
}

func TestContentListAssignments(t *testing.T) {
	svc, repo := newContentServiceForTest(t, &idStub{ids: []string{"x"}})
	ctx := context.Background()

	items, err := svc.ListAssignments(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Nil(t, repo.listed)

	items, err = svc.ListAssignments(ctx, "AB12CD, XY34ZW,AB12CD")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Equal(t, []string{"AB12CD", "XY34ZW"}, repo.listed)
}
