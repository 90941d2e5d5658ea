//go:build integration

package repositories_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/repositories/repotest"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("swiss"),
		postgres.WithUsername("swiss"),
		postgres.WithPassword("swiss"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := db.Connect(dsn, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(ctx, conn))
	return conn
}

func TestPostgresStoreContract(t *testing.T) {
	conn := startPostgres(t)

	suite.Run(t, &repotest.StoreSuite{
		NewStore: func(t *testing.T) *repositories.Store {
			_, err := conn.ExecContext(context.Background(),
				`TRUNCATE matches, participants, players, tournaments RESTART IDENTITY CASCADE`)
			require.NoError(t, err)
			return repositories.NewPostgresStore(conn)
		},
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn := startPostgres(t)
	require.NoError(t, db.Migrate(context.Background(), conn))
}
