package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func newSequenceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&SequenceCounter{}))
	require.NoError(t, db.Exec(`CREATE TABLE "@SGS_PRJ_OTMS" ("DocEntry" INTEGER, "Code" TEXT)`).Error)

	return db
}

func TestNextTimesheetCodeStartsAtOne(t *testing.T) {
	repo := NewSequenceRepository(newSequenceTestDB(t))

	code, err := repo.NextTimesheetCode(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1", code)
}

func TestNextTimesheetCodeSeedsFromExistingRecords(t *testing.T) {
	db := newSequenceTestDB(t)
	require.NoError(t, db.Exec(`INSERT INTO "@SGS_PRJ_OTMS" ("DocEntry", "Code") VALUES (1, '41'), (2, '7')`).Error)

	repo := NewSequenceRepository(db)

	code, err := repo.NextTimesheetCode(context.Background())
	require.NoError(t, err)
	require.Equal(t, "42", code)
}

func TestNextTimesheetCodeIsMonotonic(t *testing.T) {
	repo := NewSequenceRepository(newSequenceTestDB(t))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		code, err := repo.NextTimesheetCode(ctx)
		require.NoError(t, err)
		require.False(t, seen[code], "code %s allocated twice", code)
		seen[code] = true
	}

	code, err := repo.NextTimesheetCode(ctx)
	require.NoError(t, err)
	require.Equal(t, "6", code)
}

func TestNextTimesheetCodeAfterCompetingSeed(t *testing.T) {
	db := newSequenceTestDB(t)
	// A concurrent first allocation already seeded the counter row.
	require.NoError(t, db.Create(&SequenceCounter{Name: timesheetSequenceName, Value: 3}).Error)

	repo := NewSequenceRepository(db)

	code, err := repo.NextTimesheetCode(context.Background())
	require.NoError(t, err)
	require.Equal(t, "4", code)
}

func TestSequenceSeedInsertToleratesExistingRow(t *testing.T) {
	db := newSequenceTestDB(t)
	require.NoError(t, db.Create(&SequenceCounter{Name: timesheetSequenceName, Value: 3}).Error)

	// The losing seeder's insert must neither error nor clobber the
	// winner's counter value.
	counter := SequenceCounter{Name: timesheetSequenceName, Value: 0}
	require.NoError(t, db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error)

	var got SequenceCounter
	require.NoError(t, db.Where("name = ?", timesheetSequenceName).First(&got).Error)
	require.EqualValues(t, 3, got.Value)
}

func TestNextTimesheetCodeIgnoresEmptyCodes(t *testing.T) {
	db := newSequenceTestDB(t)
	require.NoError(t, db.Exec(`INSERT INTO "@SGS_PRJ_OTMS" ("DocEntry", "Code") VALUES (1, ''), (2, '3')`).Error)

	repo := NewSequenceRepository(db)

	code, err := repo.NextTimesheetCode(context.Background())
	require.NoError(t, err)
	require.Equal(t, "4", code)
}
