package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/premios/internal/adapters/cache"
	handler "github.com/vncsmyrnk/premios/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/premios/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/premios/internal/core/ports"
	"github.com/vncsmyrnk/premios/internal/core/services"
)

const jwtSecret = "test-secret"

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Auth        *services.AuthService
	Cache       cache.Cache
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

// setupTestApp wires the whole server against a fresh Postgres container,
// with the in-memory question cache in front of the repositories.
func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(ctx, db))

	questionCache := cache.NewMemoryCache(time.Minute)
	questionRepo := cache.NewQuestionRepository(repo.NewQuestionRepository(db), questionCache, time.Minute, zerolog.Nop())
	choiceRepo := cache.NewChoiceRepository(repo.NewChoiceRepository(db), questionCache)

	clock := ports.SystemClock{}
	questionSvc := services.NewQuestionService(questionRepo, choiceRepo, clock)
	voteSvc := services.NewVoteService(questionSvc, choiceRepo)
	authSvc := services.NewAuthService(jwtSecret, clock)

	router := handler.NewHandler(handler.RouterConfig{
		Polls:     handler.NewPollHandler(questionSvc),
		Votes:     handler.NewVoteHandler(questionSvc, voteSvc),
		Questions: handler.NewQuestionHandler(questionSvc),
		Admin:     handler.NewAdminHandler(questionSvc),
		Auth:      handler.NewAuthHandler(authSvc),
		Logger:    zerolog.Nop(),
	})

	server := httptest.NewServer(router)
	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	app := &TestApp{
		DB:          db,
		Server:      server,
		Client:      client,
		Auth:        authSvc,
		Cache:       questionCache,
		DBContainer: dbContainer,
	}
	t.Cleanup(func() { app.Teardown(t) })
	return app
}

func (app *TestApp) adminToken(t *testing.T) string {
	t.Helper()
	token, err := app.Auth.IssueToken(context.Background(), "integration", 15*time.Minute)
	require.NoError(t, err)
	return token
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.Cache.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
