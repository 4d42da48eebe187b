package database

import (
	"context"
	"os"
	"testing"

	"github.com/justsurfingit/outreach-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres only when TRACKER_TEST_DATABASE_URL is set.
func setupRepo(t *testing.T) *ApplicationRepository {
	t.Helper()

	dsn := os.Getenv("TRACKER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TRACKER_TEST_DATABASE_URL not set")
	}
	db, err := Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM founders")
		db.Exec("DELETE FROM applications")
	})
	return NewApplicationRepository(db)
}

func TestApplicationRepository_Lifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	app := &models.Application{
		UserID:      "u1",
		CompanyName: "Acme",
		JobTitle:    "Engineer",
		DateApplied: "2024-03-01",
		Status:      models.StatusApplied,
		Founders: []models.Founder{
			{Name: "Ada", Email: "ada@acme.test"},
			{Name: "Grace", Email: "grace@acme.test"},
		},
	}
	require.NoError(t, repo.Create(ctx, app))
	require.NotEmpty(t, app.ID)

	got, err := repo.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
	require.Len(t, got.Founders, 2)
	assert.Equal(t, "Ada", got.Founders[0].Name)

	require.NoError(t, repo.UpdateColumn(ctx, app.ID, "company_name", "Acme Corp"))
	require.NoError(t, repo.ReplaceFounders(ctx, app.ID, []models.Founder{{Name: "Linus"}}))

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Corp", list[0].CompanyName)
	require.Len(t, list[0].Founders, 1)
	assert.Equal(t, "Linus", list[0].Founders[0].Name)

	require.NoError(t, repo.Delete(ctx, app.ID))
	_, err = repo.Get(ctx, app.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, app.ID), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateColumn(ctx, app.ID, "comments", "x"), ErrNotFound)
}
