package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJournal_RecordAndList(t *testing.T) {
	j, err := New(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Empty(t, entries)

	first := &Entry{
		CustomerEmail: "a@b.com",
		ItemCount:     2,
		PaidAmount:    100,
		Status:        StatusConfirmed,
		BillID:        "B1",
	}
	require.NoError(t, j.Record(first))
	require.NotEmpty(t, first.ID)
	require.False(t, first.CreatedAt.IsZero())

	second := &Entry{
		CustomerEmail: "a@b.com",
		ItemCount:     1,
		PaidAmount:    5,
		Status:        StatusRejected,
		Detail:        "Insufficient stock",
	}
	require.NoError(t, j.Record(second))

	entries, err = j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, first.ID, entries[0].ID)
	require.Equal(t, StatusConfirmed, entries[0].Status)
	require.Equal(t, "B1", entries[0].BillID)
	require.Equal(t, second.ID, entries[1].ID)
	require.Equal(t, StatusRejected, entries[1].Status)
	require.Equal(t, "Insufficient stock", entries[1].Detail)
}

func TestJournal_ChronologicalOrder(t *testing.T) {
	j, err := New(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	now := time.Now()
	require.NoError(t, j.Record(&Entry{CustomerEmail: "b@b.com", CreatedAt: now, Status: StatusFailed}))
	require.NoError(t, j.Record(&Entry{CustomerEmail: "a@b.com", CreatedAt: now.Add(-time.Hour), Status: StatusConfirmed}))

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a@b.com", entries[0].CustomerEmail)
	require.Equal(t, "b@b.com", entries[1].CustomerEmail)
}

func TestJournal_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	j, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, j.Record(&Entry{CustomerEmail: "a@b.com", Status: StatusConfirmed, BillID: "B1"}))
	require.NoError(t, j.Close())

	j, err = New(dir)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "B1", entries[0].BillID)
}

func TestJournal_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "journal")
	j, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.FileExists(t, filepath.Join(dir, journalFileName))
}
