package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type announcementFeed interface {
	FeedByCode(ctx context.Context, code string) ([]models.FeedItem, error)
}

type contentFeed interface {
	FeedAssignments(ctx context.Context, code string) ([]models.FeedItem, error)
	FeedMaterials(ctx context.Context, code string) ([]models.FeedItem, error)
}

// FeedService assembles the class stream shown on the class page.
type FeedService struct {
	announcements announcementFeed
	content       contentFeed
	logger        *zap.Logger
}

// NewFeedService constructs FeedService.
func NewFeedService(announcements announcementFeed, content contentFeed, logger *zap.Logger) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedService{announcements: announcements, content: content, logger: logger}
}

// ClassFeed reads announcements, assignments and materials of code concurrently
// and merges them newest first. Items created at the same instant keep source order.
func (s *FeedService) ClassFeed(ctx context.Context, code string) ([]models.FeedItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kodeKelas is required")
	}

	var announcements, assignments, materials []models.FeedItem
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		announcements, err = s.announcements.FeedByCode(groupCtx, code)
		return err
	})
	group.Go(func() error {
		var err error
		assignments, err = s.content.FeedAssignments(groupCtx, code)
		return err
	})
	group.Go(func() error {
		var err error
		materials, err = s.content.FeedMaterials(groupCtx, code)
		return err
	})
	if err := group.Wait(); err != nil {
		s.logger.Error("class feed query failed", zap.String("code", code), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Kesalahan server.")
	}

	items := make([]models.FeedItem, 0, len(announcements)+len(assignments)+len(materials))
	items = append(items, announcements...)
	items = append(items, assignments...)
	items = append(items, materials...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
