package requests_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
	"github.com/EmpoweredVote/civic-requests/internal/db"
	"github.com/EmpoweredVote/civic-requests/internal/requests"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		os.Exit(m.Run())
	}

	conn, err := db.Connect(databaseURL, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "integration tests disabled:", err)
		os.Exit(m.Run())
	}
	if err := auth.Init(conn); err != nil {
		fmt.Fprintln(os.Stderr, "auth.Init:", err)
		os.Exit(1)
	}
	if err := requests.Init(conn); err != nil {
		fmt.Fprintln(os.Stderr, "requests.Init:", err)
		os.Exit(1)
	}
	testDB = conn
	os.Exit(m.Run())
}

// tempUser inserts a user with a unique email and surname; deleting it at the
// end cascades to its requests.
func tempUser(t *testing.T) *auth.User {
	t.Helper()
	if testDB == nil {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	tag := uuid.New().String()[:8]
	u := &auth.User{
		Email:        "it_" + tag + "@example.com",
		PasswordHash: "x",
		FirstName:    "Inte",
		LastName:     "Zz" + tag,
		Role:         auth.RoleCitizen,
	}
	require.NoError(t, auth.NewUserRepository(testDB).Create(context.Background(), u))
	t.Cleanup(func() {
		testDB.Delete(&auth.User{}, u.ID)
	})
	return u
}

func TestRepository_ListSearchAndCascade(t *testing.T) {
	u := tempUser(t)
	repo := requests.NewRepository(testDB)
	ctx := context.Background()

	older := &requests.Request{Department: "Parks", Date: time.Now().UTC(), Status: requests.StatusPending, UserID: u.ID}
	require.NoError(t, repo.Create(ctx, older))
	newer := &requests.Request{Department: "Roads", Date: time.Now().UTC(), Status: requests.StatusPending, UserID: u.ID}
	require.NoError(t, repo.Create(ctx, newer))

	own, err := repo.List(ctx, requests.ListFilter{UserID: u.ID})
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, newer.ID, own[0].ID, "newest first")
	assert.Nil(t, own[0].User)

	hits, err := repo.List(ctx, requests.ListFilter{WithUser: true, Query: u.LastName[2:]})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.NotNil(t, hits[0].User)
	assert.Equal(t, u.Email, hits[0].User.Email)

	updated, err := repo.UpdateStatus(ctx, older.ID, requests.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, requests.StatusApproved, updated.Status)

	_, err = repo.UpdateStatus(ctx, -1, requests.StatusApproved)
	assert.True(t, errors.Is(err, requests.ErrNotFound))

	require.NoError(t, repo.Delete(ctx, newer.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, newer.ID), requests.ErrNotFound))

	require.NoError(t, testDB.Delete(&auth.User{}, u.ID).Error)
	own, err = repo.List(ctx, requests.ListFilter{UserID: u.ID})
	require.NoError(t, err)
	assert.Empty(t, own, "requests are deleted with their owner")
}
