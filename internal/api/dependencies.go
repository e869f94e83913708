package api

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/config"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/metrics"
	"riverbend/portal/internal/services"
	"riverbend/portal/internal/validator"
)

type Repositories struct {
	User         *repositories.UserRepository
	Sponsor      *repositories.SponsorRepository
	Volunteer    *repositories.VolunteerRepository
	Event        *repositories.EventRepository
	Document     *repositories.DocumentRepository
	Announcement *repositories.AnnouncementRepository
	Stats        *repositories.StatsRepository
}

type Services struct {
	Cache        common.CacheInterface
	Auth         *services.AuthService
	User         *services.UserService
	Sponsor      *services.SponsorService
	Application  *services.SponsorApplicationService
	Volunteer    *services.VolunteerService
	Event        *services.EventService
	Document     *services.DocumentService
	Announcement *services.AnnouncementService
	Stats        *services.StatsService
}

type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	SQLX     *sqlx.DB
	Tokens   *auth.TokenIssuer
	Metrics  *metrics.MetricsRegistry
	Repo     *Repositories
	Services *Services
}

// NewDependencies wires repositories and services over clients the caller
// already opened.
func NewDependencies(
	cfg *config.Config,
	gdb *gorm.DB,
	sqlxDB *sqlx.DB,
	cache common.CacheInterface,
	mailer common.Mailer,
	storage common.FileStorage,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	renderer, err := common.NewEmailRenderer(cfg.Payment.PayableTo, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	repos := &Repositories{
		User:         repositories.NewUserRepository(gdb),
		Sponsor:      repositories.NewSponsorRepository(gdb),
		Volunteer:    repositories.NewVolunteerRepository(gdb),
		Event:        repositories.NewEventRepository(gdb),
		Document:     repositories.NewDocumentRepository(gdb),
		Announcement: repositories.NewAnnouncementRepository(gdb),
		Stats:        repositories.NewStatsRepository(sqlxDB),
	}

	v := validator.New()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	notifier := services.NewNotifier(mailer, renderer, metricsReg, cfg.BaseURL, cfg.AdminNotifyEmail)
	tokenStore := common.NewTokenStore(cache)

	maxUpload := cfg.UploadMaxBytes
	if maxUpload <= 0 {
		maxUpload = constants.MaxUploadBytes
	}

	authSvc := services.NewAuthService(gdb, repos.User, repos.Volunteer, tokenStore, tokens, notifier, v)
	svcs := &Services{
		Cache:        cache,
		Auth:         authSvc,
		User:         services.NewUserService(gdb, repos.User, repos.Volunteer, authSvc, v, cache, metricsReg),
		Sponsor:      services.NewSponsorService(gdb, repos.User, repos.Sponsor, v, cache, metricsReg),
		Application:  services.NewSponsorApplicationService(gdb, repos.User, repos.Sponsor, notifier, v, cache, metricsReg, cfg.Payment),
		Volunteer:    services.NewVolunteerService(repos.Volunteer, v),
		Event:        services.NewEventService(gdb, repos.Event, repos.User, repos.Volunteer, notifier, v, metricsReg),
		Document:     services.NewDocumentService(repos.Document, storage, v, metricsReg, maxUpload),
		Announcement: services.NewAnnouncementService(repos.Announcement, v),
		Stats:        services.NewStatsService(repos.Stats),
	}

	return &Dependencies{
		Config:   cfg,
		DB:       gdb,
		SQLX:     sqlxDB,
		Tokens:   tokens,
		Metrics:  metricsReg,
		Repo:     repos,
		Services: svcs,
	}, nil
}

// InitDependencies opens Postgres, the cache backend, the mailer and upload
// storage from configuration.
func InitDependencies(cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	gdb, err := db.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	sqlxDB, err := db.SQLX(gdb, "postgres")
	if err != nil {
		return nil, err
	}

	var cache common.CacheInterface
	if cfg.RedisEnabled() {
		client, err := common.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		cache = common.NewRedisCacheService(client, "portal:")
	} else {
		logging.Warn("REDIS_HOST not set, using in-memory cache")
		cache = common.NewCacheService(300, 600)
	}

	storage, err := common.NewLocalStorage(cfg.UploadDir, cfg.BaseURL+"/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to init upload storage: %w", err)
	}

	return NewDependencies(cfg, gdb, sqlxDB, cache, common.NewMailer(cfg), storage, metricsReg)
}

// Close releases the cache connection and the database pool.
func (d *Dependencies) Close() error {
	if err := d.Services.Cache.Close(); err != nil {
		logging.Warn("Failed to close cache", "error", err.Error())
	}
	return db.Close(d.DB)
}
