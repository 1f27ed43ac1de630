package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	gfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/msgtobala/user-story-generator/config"
	"github.com/msgtobala/user-story-generator/internal/ai"
	"github.com/msgtobala/user-story-generator/internal/auth"
	authrepo "github.com/msgtobala/user-story-generator/internal/auth/repository"
	authservice "github.com/msgtobala/user-story-generator/internal/auth/service"
	"github.com/msgtobala/user-story-generator/internal/files"
	modrepo "github.com/msgtobala/user-story-generator/internal/modules/repository"
	modservice "github.com/msgtobala/user-story-generator/internal/modules/service"
	projrepo "github.com/msgtobala/user-story-generator/internal/projects/repository"
	projservice "github.com/msgtobala/user-story-generator/internal/projects/service"
	"github.com/msgtobala/user-story-generator/internal/store"
	fsstore "github.com/msgtobala/user-story-generator/internal/store/firestore"
	"github.com/msgtobala/user-story-generator/internal/store/memory"
	"github.com/msgtobala/user-story-generator/internal/store/postgres"
	tmplrepo "github.com/msgtobala/user-story-generator/internal/templates/repository"
	tmplservice "github.com/msgtobala/user-story-generator/internal/templates/service"
)

// App holds the opened backends and the services built on them.
type App struct {
	Config *config.Config
	Log    *zap.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Firebase *firebase.App

	Templates *tmplservice.TemplateService
	Modules   *modservice.ModuleService
	Projects  *projservice.ProjectService
	Drafts    *projservice.DraftService
	Generator *ai.Generator
	Uploader  *files.Uploader

	// AuthClient is nil in header auth mode; AuthService is nil when password
	// sign-in is not configured.
	AuthClient  *fbauth.Client
	AuthService *authservice.AuthService

	firestore *gfirestore.Client
	sqlDB     *sql.DB
}

// New opens every backend cfg selects and wires the services.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}
	if err := app.open(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) open(ctx context.Context) error {
	cfg := a.Config

	rdb, err := OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	a.Redis = rdb

	if cfg.NeedsFirebase() {
		fb, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return err
		}
		a.Firebase = fb
	}

	docs, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	templateRepo := tmplrepo.NewTemplateRepository(docs)

	vocab, err := a.openVocabulary(ctx)
	if err != nil {
		return err
	}
	a.Modules = modservice.NewModuleService(vocab, templateRepo)
	a.Templates = tmplservice.NewTemplateService(templateRepo, a.Modules)

	a.Projects = projservice.NewProjectService(projrepo.NewProjectRepository(docs), a.Templates)
	a.Drafts = projservice.NewDraftService(projrepo.NewDraftRepository(rdb), a.Templates, a.Projects)

	blob, err := a.openBlob(ctx)
	if err != nil {
		return err
	}
	a.Uploader = files.NewUploader(blob)

	a.Generator, err = ai.NewGenerator(ctx, ai.Config{
		APIKey:    cfg.AI.GoogleAPIKey,
		Model:     cfg.AI.Model,
		RateLimit: cfg.AI.RateLimit,
		Burst:     cfg.AI.Burst,
	})
	if err != nil {
		return err
	}
	if !a.Generator.Configured() {
		a.Log.Warn("GOOGLE_API_KEY is not set; AI endpoints will answer 503")
	}

	return a.openAuth(ctx)
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	cfg := a.Config
	switch cfg.Backends.Store {
	case config.BackendPostgres:
		pool, err := OpenDB(ctx, DBOptions{
			DSN:      cfg.Database.DSN,
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			return nil, err
		}
		a.DB = pool
		a.sqlDB = SQLDB(pool)

		pg := postgres.New(a.sqlDB)
		if err := pg.Migrate(ctx, store.CollectionTemplates, store.CollectionProjects); err != nil {
			return nil, err
		}
		return pg, nil
	case config.BackendFirestore:
		client, err := a.firestoreClient(ctx)
		if err != nil {
			return nil, err
		}
		return fsstore.New(client), nil
	default:
		a.Log.Warn("using the in-memory store; data is lost on restart")
		return memory.New(), nil
	}
}

func (a *App) openVocabulary(ctx context.Context) (modservice.Repository, error) {
	if a.Config.Backends.Modules == config.BackendFirestore {
		client, err := a.firestoreClient(ctx)
		if err != nil {
			return nil, err
		}
		return modrepo.NewFirestoreRepository(client), nil
	}
	return modrepo.NewRedisRepository(a.Redis), nil
}

func (a *App) openBlob(ctx context.Context) (files.Blob, error) {
	cfg := a.Config
	if cfg.Backends.FileStorage == config.BackendMinio {
		return files.NewMinioBlob(ctx, files.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
	}

	client, err := a.Firebase.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Storage client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Firebase.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", cfg.Firebase.StorageBucket, err)
	}
	return files.NewFirebaseBlob(bucket, cfg.Firebase.StorageBucket), nil
}

func (a *App) openAuth(ctx context.Context) error {
	cfg := a.Config
	if cfg.Backends.AuthMode != config.AuthModeFirebase {
		a.Log.Warn("AUTH_MODE=header: requests are trusted without a token")
		return nil
	}

	client, err := a.Firebase.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to get Auth client: %w", err)
	}
	a.AuthClient = client

	if cfg.Firebase.APIKey == "" {
		a.Log.Warn("FIREBASE_API_KEY is not set; password sign-in endpoints are disabled")
		return nil
	}
	identity, err := authrepo.NewIdentityClient(ctx, cfg.Firebase.APIKey)
	if err != nil {
		return err
	}
	a.AuthService = authservice.NewAuthService(authrepo.NewUserRepository(client), identity)
	return nil
}

func (a *App) firestoreClient(ctx context.Context) (*gfirestore.Client, error) {
	if a.firestore != nil {
		return a.firestore, nil
	}
	client, err := a.Firebase.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}
	a.firestore = client
	return client, nil
}

// Close releases every opened backend.
func (a *App) Close() {
	if a.firestore != nil {
		_ = a.firestore.Close()
	}
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
