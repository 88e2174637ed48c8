package app

import (
	"context"
	"errors"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/DevJuliocesar/eventticket-sub002/internal/application/services"
	"github.com/DevJuliocesar/eventticket-sub002/internal/clock"
	"github.com/DevJuliocesar/eventticket-sub002/internal/config"
	"github.com/DevJuliocesar/eventticket-sub002/internal/eventstore"
	"github.com/DevJuliocesar/eventticket-sub002/internal/interfaces/http"
	msg "github.com/DevJuliocesar/eventticket-sub002/internal/interfaces/message"
	"github.com/DevJuliocesar/eventticket-sub002/internal/interfaces/message/commands"
	"github.com/DevJuliocesar/eventticket-sub002/internal/interfaces/message/events"
	"github.com/DevJuliocesar/eventticket-sub002/internal/interfaces/message/outbox"
	"github.com/DevJuliocesar/eventticket-sub002/internal/repository"
)

type App struct {
	cfg             config.Config
	logger          zerolog.Logger
	watermillLogger watermill.LoggerAdapter

	router    *watermillMessage.Router
	forwarder *outbox.Forwarder
	srv       *http.Server
	reaper    *services.ReaperService
	db        *sqlx.DB
}

func NewApp(
	cfg config.Config,
	watermillLogger watermill.LoggerAdapter,
	redisClient *redis.Client,
	db *sqlx.DB,
) (*App, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	clk := clock.NewSystem()

	trManager := manager.Must(trmsqlx.NewDefaultFactory(db))
	getter := trmsqlx.DefaultCtxGetter

	store := eventstore.NewPostgresStore(db, getter)
	catalogRepo := repository.NewCatalogRepo(db, getter)
	ordersRepo := repository.NewOrdersRepo(db, getter)
	reservationsRepo := repository.NewReservationsRepo(db, getter)

	txPublisher := outbox.NewTxEventPublisher(db, getter, watermillLogger)
	inventoryRepo := repository.NewInventoryRepository(store, catalogRepo, txPublisher, trManager, clk)

	inventoryService := services.NewInventoryService(inventoryRepo, clk, cfg.ReservationTTL, logger)
	intakeService := services.NewOrderIntakeService(ordersRepo, inventoryService, logger)
	reaperService := services.NewReaperService(reservationsRepo, inventoryService, clk, cfg.ReaperBatch, logger)

	var redisPublisher watermillMessage.Publisher
	redisPublisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, watermillLogger)
	if err != nil {
		return nil, err
	}
	redisPublisher = msg.CorrelationPublisherDecorator{Publisher: redisPublisher}

	commandBus, err := commands.NewBus(redisPublisher, watermillLogger)
	if err != nil {
		return nil, err
	}
	orderPublisher := commands.NewPublisher(commandBus)

	router, err := msg.NewRouter(
		watermillLogger,
		redisPublisher,
		msg.RouterConfig{MaxRetries: cfg.MessageMaxRetries},
		events.NewHandler(reservationsRepo, ordersRepo),
		commands.NewHandler(intakeService),
		events.NewEventProcessorConfig(redisClient, watermillLogger),
		commands.NewCommandProcessorConfig(redisClient, watermillLogger),
	)
	if err != nil {
		return nil, err
	}

	forwarder, err := outbox.NewForwarder(db, redisPublisher, watermillLogger)
	if err != nil {
		return nil, err
	}

	srv := http.NewServer(
		cfg.HTTPAddr,
		inventoryService,
		inventoryRepo,
		catalogRepo,
		ordersRepo,
		orderPublisher,
		reaperService,
		router.IsRunning,
	)

	return &App{
		cfg:             cfg,
		logger:          logger,
		watermillLogger: watermillLogger,
		router:          router,
		forwarder:       forwarder,
		srv:             srv,
		reaper:          reaperService,
		db:              db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := repository.InitializeDBSchema(a.db); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting router")
		return a.router.Run(ctx)
	})

	g.Go(func() error {
		a.logger.Info().Msg("starting outbox forwarder")
		return a.forwarder.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		<-a.forwarder.Running()
		a.logger.Info().Msg("router is running")

		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().
			Dur("interval", a.cfg.ReaperInterval).
			Msg("starting reservation reaper")

		err := a.reaper.Run(ctx, a.cfg.ReaperInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()

		err := a.srv.Stop(context.Background())
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}
		return err
	})

	return g.Wait()
}
