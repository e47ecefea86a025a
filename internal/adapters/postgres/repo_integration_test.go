//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/biogrid/internal/adapters/postgres"
	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/pkg/config"
)

func setupDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("biogrid-test")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestBatchRepo_RoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := postgres.NewBatchRepo(db)
	ctx := context.Background()

	b := &domain.Batch{
		ID:   uuid.NewString(),
		Name: "repo-test",
		Mappings: []domain.ObservationMap{
			{2: {"Foo": {{SequenceID: 5, Latitude: 1.5, Longitude: -2.25, Source: "GBIF"}}}},
			{0: {"Bar": {{SequenceID: 6, Latitude: 0, Longitude: 0, Source: "BOLD"}}}},
		},
		ObservationCount: 2,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Name, got.Name)
	assert.Equal(t, b.Mappings, got.Mappings)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
}

func TestReportRepo_CreateGetList(t *testing.T) {
	db := setupDB(t)
	repo := postgres.NewReportRepo(db)
	ctx := context.Background()

	r := &domain.Report{
		ID:            uuid.NewString(),
		Sites:         "s\n",
		Sequences:     "q\n",
		SiteCount:     1,
		SequenceCount: 1,
		MappingCount:  1,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, r))

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Sites, got.Sites)
	assert.Empty(t, got.BatchID)

	list, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 1)
	assert.NotEmpty(t, list)
}

func TestReportRepo_NotFound(t *testing.T) {
	repo := postgres.NewReportRepo(setupDB(t))

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
