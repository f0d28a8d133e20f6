package audit

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(repo Repo) *Logger {
	l := NewLogger(repo)
	base := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	n := 0
	l.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return l
}

func TestRecordBuildsVerifiableChain(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	l := fixedLogger(repo)

	first, err := l.Record(ctx, Event{UserID: "u1", Action: ActionLogin})
	require.NoError(t, err)
	second, err := l.Record(ctx, Event{UserID: "u2", Action: ActionRegister, Details: "email=ada@example.com"})
	require.NoError(t, err)
	_, err = l.Record(ctx, Event{UserID: "u1", Action: ActionDataExport, Status: StatusFailure})
	require.NoError(t, err)

	assert.Equal(t, GenesisHash, first.PrevHash)
	assert.Equal(t, first.Hash, second.PrevHash)
	assert.Equal(t, StatusSuccess, first.Status)
	assert.Equal(t, 0, first.CreatedAt.Nanosecond()%1000, "timestamps are truncated to microseconds")

	res, err := l.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 3, res.Checked)

	mine, err := l.ListForUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, ActionDataExport, mine[0].Action, "newest first")
}

func TestVerifyDetectsTampering(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	l := fixedLogger(repo)
	for _, action := range []string{ActionLogin, ActionRegister, ActionDataDeletion} {
		_, err := l.Record(ctx, Event{UserID: "u1", Action: action})
		require.NoError(t, err)
	}

	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)

	edited := append([]Entry(nil), entries...)
	edited[1].Details = "rewritten"
	res := VerifyChain(edited)
	assert.False(t, res.Valid)
	assert.Equal(t, int64(2), res.BrokenSeq)

	removed := []Entry{entries[0], entries[2]}
	res = VerifyChain(removed)
	assert.False(t, res.Valid)
	assert.Equal(t, int64(3), res.BrokenSeq)
}

func TestRecordRequiresAction(t *testing.T) {
	l := NewLogger(NewMemoryRepo())
	_, err := l.Record(context.Background(), Event{UserID: "u1"})
	require.Error(t, err)
}

func TestPGRepoAppendChainedStartsFromGenesis(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	repo := &PGRepo{DB: database}
	entry := Entry{
		ID:        "e1",
		UserID:    "u1",
		Action:    ActionLogin,
		Status:    StatusSuccess,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	want := Seal(entry, GenesisHash)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WithArgs(chainLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT hash FROM audit_log ORDER BY seq DESC LIMIT 1`)).
		WillReturnRows(sqlmock.NewRows([]string{"hash"}))
	mock.ExpectQuery(`INSERT INTO audit_log`).
		WithArgs("e1", "u1", ActionLogin, "", StatusSuccess, "", GenesisHash, want.Hash, want.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(1)))
	mock.ExpectCommit()

	got, err := repo.AppendChained(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, want.Hash, got.Hash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListByUser(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"seq", "id", "user_id", "action", "resource", "status", "details", "prev_hash", "hash", "created_at"}).
		AddRow(int64(4), "e4", "u1", ActionDataExport, "export-1", StatusSuccess, "", "p", "h", created)
	mock.ExpectQuery(`FROM audit_log`).WithArgs("u1", 10).WillReturnRows(rows)

	repo := &PGRepo{DB: database}
	entries, err := repo.ListByUser(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "export-1", entries[0].Resource)
	require.NoError(t, mock.ExpectationsWereMet())
}
