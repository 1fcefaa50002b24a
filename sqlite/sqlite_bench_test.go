package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/credex/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares record write performance between WAL and
// rollback journal modes, simulating a mission saving one record per page.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkRecordSaves(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkRecordSaves(b, true)
	})
}

func benchmarkRecordSaves(b *testing.B, useWAL bool) {
	b.Helper()

	dbPath := filepath.Join(b.TempDir(), "bench.db")
	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	mode := "DELETE"
	if useWAL {
		mode = "WAL"
	}
	_, err := db.ExecContext(ctx, "PRAGMA journal_mode = "+mode)
	require.NoError(b, err)

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	store := sqlite.NewRecordStore(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		record := testRecord(fmt.Sprintf("https://lbbonline.com/work/%d", i), fmt.Sprintf("Spot %d", i))
		if err := store.SaveRecord(ctx, record); err != nil {
			b.Fatal(err)
		}
	}
}
