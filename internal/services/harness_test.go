package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/config"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/dbtest"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/metrics"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/validator"
)

// fakeMailer records every message; SendAll calls it concurrently.
type fakeMailer struct {
	mu   sync.Mutex
	sent []common.EmailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg common.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) templates() []common.EmailTemplate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]common.EmailTemplate, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.Template)
	}
	return out
}

type testEnv struct {
	db      *gorm.DB
	mailer  *fakeMailer
	cache   *common.CacheService
	tokens  *common.TokenStore
	metrics *metrics.MetricsRegistry

	users         *repositories.UserRepository
	sponsors      *repositories.SponsorRepository
	volunteers    *repositories.VolunteerRepository
	events        *repositories.EventRepository
	documents     *repositories.DocumentRepository
	announcements *repositories.AnnouncementRepository

	authSvc         *AuthService
	userSvc         *UserService
	sponsorSvc      *SponsorService
	applicationSvc  *SponsorApplicationService
	volunteerSvc    *VolunteerService
	eventSvc        *EventService
	announcementSvc *AnnouncementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := dbtest.OpenTestDB(t)
	renderer, err := common.NewEmailRenderer("Riverbend Community Fund", "https://riverbend.test")
	require.NoError(t, err)

	env := &testEnv{
		db:      gdb,
		mailer:  &fakeMailer{},
		cache:   common.NewCacheService(300, 600),
		metrics: metrics.NewMetricsRegistry(prometheus.NewRegistry()),

		users:         repositories.NewUserRepository(gdb),
		sponsors:      repositories.NewSponsorRepository(gdb),
		volunteers:    repositories.NewVolunteerRepository(gdb),
		events:        repositories.NewEventRepository(gdb),
		documents:     repositories.NewDocumentRepository(gdb),
		announcements: repositories.NewAnnouncementRepository(gdb),
	}
	env.tokens = common.NewTokenStore(env.cache)

	v := validator.New()
	notifier := NewNotifier(env.mailer, renderer, env.metrics, "https://riverbend.test", "admin@riverbend.test")
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	payment := config.PaymentConfig{
		PayableTo:      "Riverbend Community Fund",
		MailingAddress: "PO Box 1, Riverbend",
		OnlineURL:      "https://riverbend.test/donate",
	}

	env.authSvc = NewAuthService(gdb, env.users, env.volunteers, env.tokens, issuer, notifier, v)
	env.userSvc = NewUserService(gdb, env.users, env.volunteers, env.authSvc, v, env.cache, env.metrics)
	env.sponsorSvc = NewSponsorService(gdb, env.users, env.sponsors, v, env.cache, env.metrics)
	env.applicationSvc = NewSponsorApplicationService(gdb, env.users, env.sponsors, notifier, v, env.cache, env.metrics, payment)
	env.volunteerSvc = NewVolunteerService(env.volunteers, v)
	env.eventSvc = NewEventService(gdb, env.events, env.users, env.volunteers, notifier, v, env.metrics)
	env.announcementSvc = NewAnnouncementService(env.announcements, v)
	return env
}

// seedMember inserts a verified, active member with a volunteer profile.
func (e *testEnv) seedMember(t *testing.T, email string, role constants.Role) *gormModels.User {
	t.Helper()

	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	verified := time.Now().UTC()
	user := &gormModels.User{
		Email:           email,
		PasswordHash:    &hash,
		FirstName:       "Test",
		LastName:        "Member",
		Role:            role,
		AccountType:     constants.AccountMember,
		IsActive:        true,
		EmailVerifiedAt: &verified,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	require.NoError(t, e.volunteers.Create(context.Background(), &gormModels.VolunteerProfile{
		UserID:            user.ID,
		ApplicationStatus: constants.ApplicationApproved,
	}))
	return user
}

func (e *testEnv) seedEvent(t *testing.T, capacity int, startsIn time.Duration) *gormModels.Event {
	t.Helper()

	starts := time.Now().UTC().Add(startsIn)
	ends := starts.Add(3 * time.Hour)
	event := &gormModels.Event{
		Title:       "River cleanup",
		Location:    "Mill Park",
		StartsAt:    starts,
		EndsAt:      &ends,
		Capacity:    capacity,
		IsPublished: true,
	}
	require.NoError(t, e.events.Create(context.Background(), event))
	return event
}
