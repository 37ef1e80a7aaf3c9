package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"scanrecon/internal/bootstrap/config"
	"scanrecon/internal/bootstrap/database"
	"scanrecon/internal/bootstrap/logging"
	notifyinfra "scanrecon/internal/infrastructure/notify"
	sqliterepo "scanrecon/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "scanrecon/internal/infrastructure/persistence/sqlite/uow"
	"scanrecon/internal/ports"
	"scanrecon/internal/usecase/campaign"
	"scanrecon/internal/usecase/decision"
	"scanrecon/internal/usecase/masterdata"
	"scanrecon/internal/usecase/review"
	"scanrecon/internal/usecase/scan"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(provideNotifier),
	fx.Provide(
		fx.Annotate(sqliterepo.NewMasterRepository, fx.As(new(ports.MasterRepository))),
		fx.Annotate(sqliterepo.NewCampaignRepository, fx.As(new(ports.CampaignRepository))),
		fx.Annotate(sqliterepo.NewSnapshotRepository, fx.As(new(ports.SnapshotRepository))),
		fx.Annotate(sqliterepo.NewScanRepository, fx.As(new(ports.ScanRepository))),
		fx.Annotate(sqliterepo.NewDecisionRepository, fx.As(new(ports.DecisionRepository))),
		fx.Annotate(sqliterepo.NewDictionaryRepository, fx.As(new(ports.DictionaryRepository))),
		fx.Annotate(sqliteuow.NewUnitOfWork, fx.As(new(ports.UnitOfWork))),
	),
	fx.Provide(
		campaign.NewService,
		scan.NewService,
		review.NewService,
		decision.NewService,
		masterdata.NewService,
	),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideNotifier(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.Notifier, error) {
	if cfg.Notify.URL == "" {
		return notifyinfra.NewNoopNotifier(), nil
	}

	notifier, err := notifyinfra.NewNATSNotifier(cfg.Notify)
	if err != nil {
		return nil, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx")),
		"nats notifier enabled",
		slog.String("subject", cfg.Notify.Subject),
	)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			notifier.Close()
			return nil
		},
	})

	return notifier, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
