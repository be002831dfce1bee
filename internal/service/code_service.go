package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

const (
	codeAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	classCodeLength     = 6
	contentSuffixLength = 5
	defaultCodeAttempts = 10
)

var contentPrefixes = map[models.IDKind]string{
	models.KindAssignment: "TGS",
	models.KindMaterial:   "MTI",
	models.KindQuiz:       "QZ",
}

type codeRepository interface {
	Exists(ctx context.Context, kind models.IDKind, id string) (bool, error)
}

// CodeService issues collision-checked identifiers for classes and class content.
type CodeService struct {
	repo        codeRepository
	metrics     *MetricsService
	logger      *zap.Logger
	maxAttempts int
	random      func(n int) (string, error)
}

// NewCodeService constructs the generator. maxAttempts <= 0 selects the default bound.
func NewCodeService(repo codeRepository, metrics *MetricsService, maxAttempts int, logger *zap.Logger) *CodeService {
	if maxAttempts <= 0 {
		maxAttempts = defaultCodeAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodeService{repo: repo, metrics: metrics, logger: logger, maxAttempts: maxAttempts, random: randomString}
}

// ParseKind normalises a client supplied kind name.
func ParseKind(raw string) (models.IDKind, error) {
	kind := models.IDKind(strings.ToLower(strings.TrimSpace(raw)))
	if kind == models.KindClass {
		return kind, nil
	}
	if _, ok := contentPrefixes[kind]; ok {
		return kind, nil
	}
	return "", appErrors.ErrUnknownKind
}

// Generate returns an identifier of kind that is not present in its table at call time.
func (s *CodeService) Generate(ctx context.Context, kind models.IDKind) (string, error) {
	format, err := s.formatter(kind)
	if err != nil {
		return "", err
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		candidate, err := format()
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		taken, err := s.repo.Exists(ctx, kind, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		if !taken {
			s.metrics.ObserveCodeGeneration(kind, attempt, false)
			return candidate, nil
		}
		s.logger.Debug("identifier collision", zap.String("kind", string(kind)), zap.String("candidate", candidate), zap.Int("attempt", attempt))
	}

	s.metrics.ObserveCodeGeneration(kind, s.maxAttempts, true)
	s.logger.Warn("identifier generation exhausted", zap.String("kind", string(kind)), zap.Int("attempts", s.maxAttempts))
	return "", appErrors.ErrGenerationExhausted
}

func (s *CodeService) formatter(kind models.IDKind) (func() (string, error), error) {
	if kind == models.KindClass {
		return func() (string, error) { return s.random(classCodeLength) }, nil
	}
	prefix, ok := contentPrefixes[kind]
	if !ok {
		return nil, appErrors.ErrUnknownKind
	}
	return func() (string, error) {
		suffix, err := s.random(contentSuffixLength)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s-%s", prefix, suffix), nil
	}, nil
}

func randomString(n int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		buf[i] = codeAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
