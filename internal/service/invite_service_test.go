package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/pkg/config"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
	"github.com/noah-isme/eduplatform-api/pkg/mail"
)

type senderStub struct {
	mu    sync.Mutex
	sent  []mail.Message
	err   error
	calls int
}

func (s *senderStub) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *senderStub) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

var testInviteConfig = config.InviteConfig{
	BaseURL:      "https://edu.example.com",
	From:         "eduplatform@gmail.com",
	Workers:      1,
	MaxRetries:   1,
	RetryDelay:   10 * time.Millisecond,
	QueueBacklog: 8,
}

func newInviteFixture(t *testing.T, sender *senderStub, metrics *MetricsService) (*InviteService, *memoryDB) {
	t.Helper()
	db := newMemoryDB()
	seedClassWithOwner(db, "AB12CD", "Matematika <i>Lanjut</i>")
	svc := NewInviteService(memoryClassRepo{db: db}, memoryMemberRepo{db: db}, sender, metrics, testInviteConfig, nil, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc, db
}

func TestInviteQueuesMail(t *testing.T) {
	sender := &senderStub{}
	svc, _ := newInviteFixture(t, sender, nil)

	require.NoError(t, svc.Invite(context.Background(), guru, models.InviteRequest{Email: siswa.Email, Code: "AB12CD"}))
	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)

	msg := sender.messages()[0]
	assert.Equal(t, "Undangan Kelas - EduPlatform", msg.Subject)
	assert.Equal(t, siswa.Email, msg.To)
	assert.Equal(t, "eduplatform@gmail.com", msg.From)
	assert.Contains(t, msg.HTML, "https://edu.example.com/join/AB12CD/student@y.com")
	assert.Contains(t, msg.HTML, "<b>Matematika Lanjut</b>")
	assert.False(t, strings.Contains(msg.HTML, "<i>"))
}

func TestInviteRejections(t *testing.T) {
	svc, db := newInviteFixture(t, &senderStub{}, nil)
	db.seedMember(models.Membership{Code: "AB12CD", Email: siswa.Email, Role: models.RoleSiswa})
	ctx := context.Background()

	err := svc.Invite(ctx, guru, models.InviteRequest{Email: "", Code: "AB12CD"})
	assert.Equal(t, "Email dan nama kelas harus disediakan", appErrors.FromError(err).Message)

	err = svc.Invite(ctx, guru, models.InviteRequest{Email: siswa.Email, Code: "AB12CD"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ResultDuplicate, appErr.Result)
	assert.Equal(t, "Anggota sudah bergabung dalam kelas.", appErr.Message)

	err = svc.Invite(ctx, guru, models.InviteRequest{Email: "new@y.com", Code: "ZZZZZZ"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	err = svc.Invite(ctx, siswa, models.InviteRequest{Email: "new@y.com", Code: "AB12CD"})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestInviteDeadLetterRecordsMetric(t *testing.T) {
	sender := &senderStub{err: errors.New("smtp down")}
	metrics := NewMetricsService()
	svc, _ := newInviteFixture(t, sender, metrics)

	require.NoError(t, svc.Invite(context.Background(), guru, models.InviteRequest{Email: siswa.Email, Code: "AB12CD"}))
	require.Eventually(t, func() bool { return metrics.Snapshot().InviteDeadLetters == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestInviteInvalidMessageIsNotRetried(t *testing.T) {
	sender := &senderStub{err: fmt.Errorf("%w: recipient rejected", mail.ErrInvalidMessage)}
	metrics := NewMetricsService()
	db := newMemoryDB()
	seedClassWithOwner(db, "AB12CD", "Matematika")
	cfg := testInviteConfig
	cfg.MaxRetries = 5
	svc := NewInviteService(memoryClassRepo{db: db}, memoryMemberRepo{db: db}, sender, metrics, cfg, nil, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)

	require.NoError(t, svc.Invite(context.Background(), guru, models.InviteRequest{Email: siswa.Email, Code: "AB12CD"}))
	require.Eventually(t, func() bool { return metrics.Snapshot().InviteDeadLetters == 1 }, 2*time.Second, 10*time.Millisecond)
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, 1, sender.calls)
}

func TestInviteAfterStopFails(t *testing.T) {
	db := newMemoryDB()
	seedClassWithOwner(db, "AB12CD", "Matematika")
	svc := NewInviteService(memoryClassRepo{db: db}, memoryMemberRepo{db: db}, &senderStub{}, nil, testInviteConfig, nil, nil)

	err := svc.Invite(context.Background(), guru, models.InviteRequest{Email: siswa.Email, Code: "AB12CD"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Equal(t, "Gagal mengirim email", appErr.Message)
}

func TestInviteLinkEscapes(t *testing.T) {
	svc := NewInviteService(nil, nil, nil, nil, testInviteConfig, nil, nil)
	assert.Equal(t, "https://edu.example.com/join/AB12CD/a+b@c.com", svc.InviteLink("AB12CD", "a+b@c.com"))
	assert.Equal(t, "https://edu.example.com/join/AB%2F12/x@y.com", svc.InviteLink("AB/12", "x@y.com"))
}
