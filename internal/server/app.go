package server

import (
	"github.com/emrgen/webmention/internal/avatar"
	"github.com/emrgen/webmention/internal/cache"
	"github.com/emrgen/webmention/internal/compress"
	"github.com/emrgen/webmention/internal/config"
	"github.com/emrgen/webmention/internal/notify"
	"github.com/emrgen/webmention/internal/queue"
	"github.com/emrgen/webmention/internal/service"
	"github.com/emrgen/webmention/internal/store"
	"github.com/emrgen/webmention/internal/xray"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds the wired collaborators of one process.
type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Store   store.Store
	Redis   *cache.Redis
	Status  cache.StatusCache
	Service *service.WebmentionService
	Queue   queue.MentionQueue

	closers []func()
}

// NewApp connects the database, redis and kafka as configured and builds
// the webmention service on top of them.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	app.DB = config.GetDb(cfg)
	app.Store = store.NewGormStore(app.DB)
	if err := app.Store.Migrate(); err != nil {
		return nil, err
	}

	app.Redis = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	app.closers = append(app.closers, func() { _ = app.Redis.Close() })
	app.Status = cache.NewRedisStatusCache(app.Redis)

	notifiers := notify.Multi{notify.NewWebhook(cfg.XRayTimeout)}
	if cfg.KafkaBrokers != "" {
		events, err := notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaEventTopic)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, events.Close)
		notifiers = append(notifiers, events)

		mentions, err := queue.NewKafka(cfg.KafkaBrokers, cfg.KafkaMentionTopic, cfg.KafkaGroupID)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Queue = mentions
	} else {
		logrus.Warn("KAFKA_BROKERS not set, queueing webmentions in memory")
		app.Queue = queue.NewMemory(1024)
	}
	app.closers = append(app.closers, func() { _ = app.Queue.Close() })

	var captures compress.Compress
	if cfg.CaptureEncoding != "" {
		c, err := compress.New(cfg.CaptureEncoding)
		if err != nil {
			app.Close()
			return nil, err
		}
		captures = c
	}

	var avatars avatar.Archiver
	if cfg.AvatarArchiveURL != "" {
		avatars = avatar.NewRewriter(cfg.AvatarArchiveURL)
	}

	resolver := xray.NewClient(cfg.XRayURL, cfg.XRayTimeout)
	app.Service = service.NewWebmentionService(service.Deps{
		Store:    app.Store,
		Status:   app.Status,
		Resolver: resolver,
		Tokens:   resolver,
		Notifier: notifiers,
		Archive:  notify.NewArchive(cfg.XRayTimeout),
		Avatars:  avatars,
		Compress: captures,
	})

	return app, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
