package bootstrap

import (
	"context"
	"fmt"
	"log"

	"color-notes-be/internal/config"
	"color-notes-be/internal/controller"
	"color-notes-be/internal/handler"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/repository/contract"
	"color-notes-be/internal/repository/implementation"
	"color-notes-be/internal/repository/memory"
	"color-notes-be/internal/service"
	"color-notes-be/internal/websocket"
	"color-notes-be/pkg/changefeed"

	pktNats "color-notes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AuthController    controller.IAuthController
	NoteController    controller.INoteController
	DetailController  controller.IDetailController
	PaletteController controller.IPaletteController

	// Services
	AuthService service.IAuthService
	NoteStore   service.INoteStore

	// WebSockets & Activity
	ListScreenHandler *handler.ListScreenHandler
	WebSocketHub      *websocket.Hub
	ActivityService   *service.ActivityService // nil unless EVENTS_ENABLED

	closers []func()
}

// NewContainer wires the application. db may be nil when the memory store driver is selected.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	return NewContainerWithLoggers(db, cfg, sysLogger, wsLogger)
}

func NewContainerWithLoggers(db *gorm.DB, cfg *config.Config, sysLogger, wsLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Document store
	var (
		noteRepo contract.NoteRepository
		userRepo contract.UserRepository
	)
	switch cfg.Database.Driver {
	case config.StoreDriverMemory:
		noteRepo = memory.NewNoteRepository()
		userRepo = memory.NewUserRepository()
		log.Printf("[INFO] Using Store Driver: MEMORY")
	case config.StoreDriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("store driver %q needs a database connection", cfg.Database.Driver)
		}
		noteRepo = implementation.NewNoteRepository(db)
		userRepo = implementation.NewUserRepository(db)
		log.Printf("[INFO] Using Store Driver: POSTGRES")
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
	}

	// 2. Change feed
	var (
		feed changefeed.Feed
		rdb  *redis.Client
	)
	switch cfg.Feed.Driver {
	case config.FeedDriverRedis:
		opt, err := redis.ParseURL(cfg.Feed.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Feed.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		feed = changefeed.NewRedisFeed(rdb)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		log.Printf("[INFO] Using Change Feed: REDIS")
	case config.FeedDriverNats:
		natsFeed, err := changefeed.NewNatsFeedFromURL(cfg.Feed.NatsURL)
		if err != nil {
			return nil, err
		}
		feed = natsFeed
		c.closers = append(c.closers, func() { _ = natsFeed.Close() })
		log.Printf("[INFO] Using Change Feed: NATS")
	case config.FeedDriverMemory:
		goFeed := changefeed.NewGoChannelFeed(watermill.NewStdLogger(false, false))
		feed = goFeed
		c.closers = append(c.closers, func() { _ = goFeed.Close() })
		log.Printf("[INFO] Using Change Feed: IN-PROCESS")
	default:
		return nil, fmt.Errorf("unknown change feed driver %q", cfg.Feed.Driver)
	}

	// 3. Domain events (optional)
	var (
		eventPublisher service.EventPublisher
		natsSub        *pktNats.Subscriber
	)
	if cfg.Feed.EventsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.Feed.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.Feed.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 4. Sessions & services
	sessionRepo := memory.NewSessionRepository(cfg.Auth.SessionTTL)
	c.AuthService = service.NewAuthService(userRepo, sessionRepo, cfg.Auth.JwtSecret, cfg.Auth.SessionTTL, eventPublisher, sysLogger)
	c.NoteStore = service.NewNoteStore(noteRepo, feed, eventPublisher, sysLogger)

	// 5. WebSocket hub (cluster fan-out only when redis is available)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)
	c.ListScreenHandler = handler.NewListScreenHandler(c.AuthService, c.NoteStore, c.WebSocketHub, wsLogger)

	if natsSub != nil {
		c.ActivityService = service.NewActivityService(natsSub, c.WebSocketHub, wsLogger)
	}

	// 6. Controllers
	detailController := controller.NewDetailController(c.NoteStore, c.AuthService, cfg.App.ScreenTTL, sysLogger)
	c.DetailController = detailController
	c.NoteController = controller.NewNoteController(c.NoteStore, c.AuthService, sysLogger)
	c.PaletteController = controller.NewPaletteController()
	c.AuthController = controller.NewAuthController(c.AuthService, sysLogger, c.WebSocketHub, detailController)

	return c, nil
}

// Start runs the background workers until ctx is done.
func (c *Container) Start(ctx context.Context) {
	go c.WebSocketHub.Run(ctx)

	if c.ActivityService != nil {
		if err := c.ActivityService.Start(ctx); err != nil {
			log.Printf("Background: activity service not started: %v", err)
		}
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
