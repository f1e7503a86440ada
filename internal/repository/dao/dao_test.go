package dao

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgres starts a throwaway postgres container. Tests are skipped
// when no Docker daemon is reachable so the suite stays runnable on
// machines without one.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct dockertest pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("could not connect to Docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=points_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=points_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(db))

	return db
}

func TestMembershipDAO_ApplyBalanceDelta(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	membershipDAO := NewMembershipDAO(db)

	_, err := membershipDAO.Insert(ctx, Membership{
		UserID: 1,
		Tier:   "Bronze",
		Status: "active",
	})
	require.NoError(t, err)

	t.Run("applies both deltas in one statement", func(t *testing.T) {
		m, err := membershipDAO.ApplyBalanceDelta(ctx, 1, 100, 100)
		require.NoError(t, err)
		require.Equal(t, int64(100), m.PointsBalance)
		require.Equal(t, int64(100), m.LifetimePoints)

		m, err = membershipDAO.ApplyBalanceDelta(ctx, 1, -30, 0)
		require.NoError(t, err)
		require.Equal(t, int64(70), m.PointsBalance)
		require.Equal(t, int64(100), m.LifetimePoints)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := membershipDAO.ApplyBalanceDelta(ctx, 999, 10, 10)
		require.ErrorIs(t, err, ErrMembershipNotFound)
	})

	t.Run("concurrent increments do not lose updates", func(t *testing.T) {
		const workers = 50

		_, err := membershipDAO.Insert(ctx, Membership{
			UserID: 2,
			Tier:   "Bronze",
			Status: "active",
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := membershipDAO.ApplyBalanceDelta(ctx, 2, 1, 1)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		m, err := membershipDAO.FindByUserID(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, int64(workers), m.PointsBalance)
		require.Equal(t, int64(workers), m.LifetimePoints)
	})

	t.Run("duplicate membership per user conflicts", func(t *testing.T) {
		_, err := membershipDAO.Insert(ctx, Membership{
			UserID: 1,
			Tier:   "Bronze",
			Status: "active",
		})
		require.ErrorIs(t, err, ErrMembershipExists)
	})
}

func TestLedgerDAO_ReplayTotals(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	ledgerDAO := NewLedgerDAO(db)

	deltas := []int64{100, 250, -50, 30, -10}
	for _, delta := range deltas {
		_, err := ledgerDAO.Insert(ctx, LedgerEntry{
			UserID:      5,
			DeltaPoints: delta,
			Reason:      "seed",
			Source:      "manual_adjustment",
		})
		require.NoError(t, err)
	}

	// Entries for another user must not bleed into the totals.
	_, err := ledgerDAO.Insert(ctx, LedgerEntry{
		UserID:      6,
		DeltaPoints: 1000,
		Reason:      "seed",
		Source:      "manual_adjustment",
	})
	require.NoError(t, err)

	balance, lifetime, err := ledgerDAO.ReplayTotals(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(320), balance)
	require.Equal(t, int64(380), lifetime)

	t.Run("empty ledger yields zeros", func(t *testing.T) {
		balance, lifetime, err := ledgerDAO.ReplayTotals(ctx, 999)
		require.NoError(t, err)
		require.Zero(t, balance)
		require.Zero(t, lifetime)
	})

	t.Run("entries come back in insertion order", func(t *testing.T) {
		entries, err := ledgerDAO.FindByUserID(ctx, 5, 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, len(deltas))
		for i, e := range entries {
			require.Equal(t, deltas[i], e.DeltaPoints)
		}
	})

	count, err := ledgerDAO.CountByUserID(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(len(deltas)), count)
}

func TestPointRuleDAO(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	ruleDAO := NewPointRuleDAO(db)

	created, err := ruleDAO.Insert(ctx, PointRule{
		ActionType:    "consumption",
		PointsPerUnit: 1,
		UnitSize:      10,
		Unit:          "EUR_cents",
		Active:        true,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = ruleDAO.Insert(ctx, PointRule{
		ActionType:    "consumption",
		PointsPerUnit: 2,
		UnitSize:      10,
		Unit:          "EUR_cents",
		Active:        true,
	})
	require.ErrorIs(t, err, ErrRuleExists)

	updated, err := ruleDAO.Update(ctx, "consumption", 3, 100, "EUR_cents", false)
	require.NoError(t, err)
	require.Equal(t, int64(3), updated.PointsPerUnit)
	require.False(t, updated.Active)

	_, err = ruleDAO.Update(ctx, "no-such-action", 1, 1, "visit", true)
	require.ErrorIs(t, err, ErrRuleNotFound)
}
