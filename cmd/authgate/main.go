package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	authgate "github.com/goliatone/go-auth-gateway"
	"github.com/goliatone/go-auth-gateway/config"
	"github.com/goliatone/go-auth-gateway/middleware/authware"
	"github.com/goliatone/go-auth-gateway/middleware/requestlog"
)

type App struct {
	config   *gconfig.Container[*config.BaseConfig]
	bunDB    *bun.DB
	users    authgate.Users
	provider *authgate.UserProvider
	auther   *authgate.Auther
	srv      router.Server[*fiber.App]
	logger   *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	// .env is a local dev convenience; in production the real environment
	// carries the values and the file does not exist.
	_ = godotenv.Load()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("authgate"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	raw := cfg.Raw()
	if raw.Auth.SigningKey == "" {
		raw.Auth.SigningKey = os.Getenv("AUTH_SIGNING_KEY")
	}

	// No signing secret, no process. Tokens minted with a guessable or
	// empty key are worse than no auth at all.
	if err := raw.Auth.Validate(); err != nil {
		lgr.GetLogger("config").Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	if raw.Server.Debug {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(raw.Server))
		fmt.Println("============")
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	WithHTTPServer(ctx, app)

	Routes(app)

	app.srv.Serve(app.Config().GetServer().GetAddress())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to open database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := runMigrations(ctx, db); err != nil {
		return err
	}

	app.bunDB = db
	app.users = authgate.NewUsersRepository(db)

	return seedUsers(ctx, app)
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrations, err := fs.Sub(authgate.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to scope migrations fs")
	}

	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to read migrations")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := fs.ReadFile(migrations, name)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "unable to read migration "+name)
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "migration failed: "+name)
		}
	}

	return nil
}

// seedUsers provisions the bootstrap account on first run. The password
// comes from AUTH_SEED_PASSWORD; without one the account is created with a
// random unguessable hash so the row exists but cannot be logged into.
func seedUsers(ctx context.Context, app *App) error {
	seed := app.Config().GetPersistence().GetSeed()
	if !seed.GetEnabled() {
		return nil
	}

	hash := authgate.RandomPasswordHash()
	if password := os.Getenv("AUTH_SEED_PASSWORD"); password != "" {
		var err error
		if hash, err = authgate.HashPassword(password); err != nil {
			return err
		}
	}

	role, ok := authgate.ParseRole(seed.GetRole())
	if !ok {
		return errors.New("unknown seed role: "+seed.GetRole(), errors.CategoryBadInput)
	}

	user, err := app.users.GetOrRegister(ctx, &authgate.User{
		Username:     seed.GetUsername(),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return err
	}

	app.GetLogger("seed").Info("bootstrap account ready", "username", user.Username, "role", user.Role)

	return nil
}

func WithAuth(ctx context.Context, app *App) error {
	provider := authgate.NewUserProvider(app.users).
		WithLogger(app.GetLogger("auth:prv"))

	auther, err := authgate.NewAuthenticator(provider, app.Config().GetAuth())
	if err != nil {
		return err
	}

	activity := app.GetLogger("auth:activity")
	auther.WithLogger(app.GetLogger("auth")).
		WithActivitySink(authgate.ActivitySinkFunc(func(ctx context.Context, event authgate.ActivityEvent) error {
			activity.Info("auth activity", "event", string(event.EventType), "user_id", event.UserID)
			return nil
		}))

	app.provider = provider
	app.auther = auther

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	app.srv = srv
}

func Routes(app *App) {
	r := app.srv.Router()
	authCfg := app.Config().GetAuth()

	r.Use(authware.New(authware.Config{
		TokenValidator:   app.auther.TokenService(),
		IdentityResolver: app.provider,
		ContextKey:       authCfg.GetContextKey(),
		TokenLookup:      authCfg.GetTokenLookup(),
		AuthScheme:       authCfg.GetAuthScheme(),
		Logger:           app.GetLogger("auth:ware"),
		Observer: func(ctx router.Context, err error) {
			app.GetLogger("auth:ware").Info("rejected credential",
				"kind", authgate.TokenFailureKind(err),
				"path", ctx.OriginalURL(),
			)
		},
	}))

	r.Use(requestlog.New(requestlog.Config{
		Logger:     app.GetLogger("http"),
		ContextKey: authCfg.GetContextKey(),
	}))

	authgate.RegisterAuthRoutes(r,
		authgate.WithControllerAuthenticator(app.auther),
		authgate.WithControllerLogger(app.GetLogger("auth:ctrl")),
		authgate.WithControllerDebug(app.Config().GetServer().GetDebug()),
	)

	protected := authware.RequireAuthenticated(authware.GuardConfig{
		ContextKey: authCfg.GetContextKey(),
	})

	r.Get("/api/random", RandomNumber(app), protected)
}

// RandomNumber is the demo protected resource: any authenticated principal
// can fetch it, anonymous callers get the guard's 401.
func RandomNumber(app *App) func(router.Context) error {
	return func(ctx router.Context) error {
		principal, _ := authgate.PrincipalFromRouterContext(ctx, app.Config().GetAuth().GetContextKey())
		return ctx.JSON(router.StatusOK, map[string]any{
			"value":    rand.Intn(100),
			"username": principal.Username,
		})
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
