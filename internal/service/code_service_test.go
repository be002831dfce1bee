package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type codeRepoStub struct {
	mu    sync.Mutex
	taken map[string]bool
	calls int
	err   error
}

func (c *codeRepoStub) Exists(ctx context.Context, kind models.IDKind, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.taken[id], nil
}

func sequence(values ...string) func(int) (string, error) {
	i := 0
	return func(n int) (string, error) {
		v := values[i%len(values)]
		i++
		return v, nil
	}
}

func TestCodeServiceFormats(t *testing.T) {
	svc := NewCodeService(&codeRepoStub{}, nil, 0, nil)
	patterns := map[models.IDKind]*regexp.Regexp{
		models.KindClass:      regexp.MustCompile(`^[A-Z0-9]{6}$`),
		models.KindAssignment: regexp.MustCompile(`^TGS-[A-Z0-9]{5}$`),
		models.KindMaterial:   regexp.MustCompile(`^MTI-[A-Z0-9]{5}$`),
		models.KindQuiz:       regexp.MustCompile(`^QZ-[A-Z0-9]{5}$`),
	}
	for kind, pattern := range patterns {
		for i := 0; i < 50; i++ {
			id, err := svc.Generate(context.Background(), kind)
			require.NoError(t, err)
			assert.Regexp(t, pattern, id)
		}
	}
}

func TestCodeServiceRetriesOnCollision(t *testing.T) {
	repo := &codeRepoStub{taken: map[string]bool{"AAAAAA": true, "BBBBBB": true}}
	metrics := NewMetricsService()
	svc := NewCodeService(repo, metrics, 5, nil)
	svc.random = sequence("AAAAAA", "BBBBBB", "CCCCCC")

	code, err := svc.Generate(context.Background(), models.KindClass)
	require.NoError(t, err)
	assert.Equal(t, "CCCCCC", code)
	assert.Equal(t, 3, repo.calls)
	assert.Equal(t, float64(2), metrics.Snapshot().CodeCollisions)
}

func TestCodeServiceBoundedAttempts(t *testing.T) {
	repo := &codeRepoStub{taken: map[string]bool{"TGS-AAAAA": true}}
	svc := NewCodeService(repo, nil, 3, nil)
	svc.random = sequence("AAAAA")

	_, err := svc.Generate(context.Background(), models.KindAssignment)
	assert.True(t, appErrors.Is(err, appErrors.ErrGenerationExhausted))
	assert.Equal(t, 3, repo.calls)
}

func TestCodeServiceUnknownKind(t *testing.T) {
	svc := NewCodeService(&codeRepoStub{}, nil, 0, nil)
	_, err := svc.Generate(context.Background(), models.IDKind("rapor"))
	assert.True(t, appErrors.Is(err, appErrors.ErrUnknownKind))

	_, err = ParseKind("Rapor")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnknownKind))

	kind, err := ParseKind(" Tugas ")
	require.NoError(t, err)
	assert.Equal(t, models.KindAssignment, kind)
}

func TestCodeServiceStoreError(t *testing.T) {
	svc := NewCodeService(&codeRepoStub{err: errors.New("db down")}, nil, 0, nil)
	_, err := svc.Generate(context.Background(), models.KindClass)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestCodeServiceConcurrentUse(t *testing.T) {
	svc := NewCodeService(&codeRepoStub{}, NewMetricsService(), 0, nil)
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(context.Background(), models.KindClass)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
