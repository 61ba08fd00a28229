package db

import (
	"context"
	"testing"

	"github.com/RichardoC/chat-thread/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	database, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestCreateAccountAndVerify(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	acct, err := database.CreateAccount(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, acct.ID)
	assert.NotEqual(t, "s3cret", acct.PasswordHash)

	assert.True(t, database.VerifyPassword(acct, "s3cret"))
	assert.False(t, database.VerifyPassword(acct, "wrong"))
}

func TestCreateAccountDuplicateUsername(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	_, err := database.CreateAccount(ctx, "alice", "one")
	require.NoError(t, err)

	_, err = database.CreateAccount(ctx, "alice", "two")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestFindAccount(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	acct, err := database.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)

	byName, ok, err := database.FindAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, acct.ID, byName.ID)

	_, ok, err = database.FindAccountByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	byID, ok, err := database.FindAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", byID.Username)

	_, ok, err = database.FindAccountByID(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionLifecycle(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	acct, err := database.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)

	src := "Hi"
	rec := &models.SessionRecord{
		OwnerID:     acct.ID,
		TitleSource: &src,
		Log:         `[{"role":"user","content":"Hi"},{"role":"assistant","content":"Hello!"}]`,
	}
	id, err := database.InsertSession(ctx, rec)
	require.NoError(t, err)
	assert.NotZero(t, id)

	loaded, ok, err := database.GetSession(ctx, id, acct.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.Log, loaded.Log)
	require.NotNil(t, loaded.TitleSource)
	assert.Equal(t, "Hi", *loaded.TitleSource)

	loaded.Log = `[{"role":"user","content":"Hi"},{"role":"assistant","content":"Hello!"},{"role":"user","content":"More"},{"role":"assistant","content":"Sure"}]`
	require.NoError(t, database.UpdateSession(ctx, loaded))

	reloaded, ok, err := database.GetSession(ctx, id, acct.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, loaded.Log, reloaded.Log)
}

func TestInsertSessionRejectsEmptyLog(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	_, err := database.InsertSession(ctx, &models.SessionRecord{OwnerID: 1, Log: "[]"})
	assert.Error(t, err)

	_, err = database.InsertSession(ctx, &models.SessionRecord{OwnerID: 1})
	assert.Error(t, err)
}

func TestInsertSessionNilTitleSourceStaysNull(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	acct, err := database.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)

	id, err := database.InsertSession(ctx, &models.SessionRecord{
		OwnerID: acct.ID,
		Log:     `[{"role":"user","content":""},{"role":"assistant","content":"?"}]`,
	})
	require.NoError(t, err)

	loaded, ok, err := database.GetSession(ctx, id, acct.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, loaded.TitleSource)
}

func TestGetSessionOwnershipIsPartOfTheKey(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	alice, err := database.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)
	bob, err := database.CreateAccount(ctx, "bob", "pw")
	require.NoError(t, err)

	id, err := database.InsertSession(ctx, &models.SessionRecord{
		OwnerID: alice.ID,
		Log:     `[{"role":"user","content":"private"}]`,
	})
	require.NoError(t, err)

	// Bob sees Alice's session exactly like a session that does not exist.
	_, ok, err := database.GetSession(ctx, id, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteSessionCounts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	acct, err := database.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)

	id, err := database.InsertSession(ctx, &models.SessionRecord{
		OwnerID: acct.ID,
		Log:     `[{"role":"user","content":"x"}]`,
	})
	require.NoError(t, err)

	n, err := database.DeleteSession(ctx, id, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Second delete reports zero affected records, not an error.
	n, err = database.DeleteSession(ctx, id, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDeleteSessionsForOwner(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	alice, err := database.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)
	bob, err := database.CreateAccount(ctx, "bob", "pw")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := database.InsertSession(ctx, &models.SessionRecord{
			OwnerID: alice.ID,
			Log:     `[{"role":"user","content":"x"}]`,
		})
		require.NoError(t, err)
	}
	bobID, err := database.InsertSession(ctx, &models.SessionRecord{
		OwnerID: bob.ID,
		Log:     `[{"role":"user","content":"y"}]`,
	})
	require.NoError(t, err)

	n, err := database.DeleteSessionsForOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, ok, err := database.GetSession(ctx, bobID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListSessionsForOwner(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	acct, err := database.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := database.InsertSession(ctx, &models.SessionRecord{
			OwnerID: acct.ID,
			Log:     `[{"role":"user","content":"x"}]`,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	recs, err := database.ListSessionsForOwner(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	// Most recent first; same-timestamp inserts tie-break on id.
	assert.Equal(t, ids[2], recs[0].ID)
	assert.Equal(t, ids[0], recs[2].ID)
}
