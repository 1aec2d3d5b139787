package repository

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const timesheetSequenceName = "timesheet_code"

// SequenceCounter is a single-row counter owned by this service. Record
// codes are allocated from it inside a transaction, so two concurrent
// creates can never compute the same next code.
type SequenceCounter struct {
	Name      string `gorm:"primaryKey"`
	Value     int64
	UpdatedAt time.Time
}

// TableName specifies the table name for SequenceCounter
func (SequenceCounter) TableName() string {
	return "timesheet_sequences"
}

type SequenceRepository struct {
	DB *gorm.DB
}

// NewSequenceRepository creates a new repository for code allocation
func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{DB: db}
}

// NextTimesheetCode allocates the next record code. The counter row is
// incremented in place inside the transaction; on first use it is seeded
// from the highest numeric code already present in the timesheet table.
// The seed insert is an upsert, so two concurrent first uses cannot fail
// each other on the primary key.
func (r *SequenceRepository) NextTimesheetCode(ctx context.Context) (string, error) {
	var next int64

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&SequenceCounter{}).
			Where("name = ?", timesheetSequenceName).
			Update("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			seed, err := maxExistingCode(tx)
			if err != nil {
				return err
			}
			counter := SequenceCounter{Name: timesheetSequenceName, Value: seed}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error; err != nil {
				return err
			}

			// The row exists now either way; increment it like any
			// other allocation.
			res = tx.Model(&SequenceCounter{}).
				Where("name = ?", timesheetSequenceName).
				Update("value", gorm.Expr("value + 1"))
			if res.Error != nil {
				return res.Error
			}
		}

		var counter SequenceCounter
		if err := tx.Where("name = ?", timesheetSequenceName).First(&counter).Error; err != nil {
			return err
		}
		next = counter.Value
		return nil
	})
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(next, 10), nil
}

func maxExistingCode(tx *gorm.DB) (int64, error) {
	var max int64
	err := tx.Raw(`
		SELECT COALESCE(MAX(CAST("Code" AS INTEGER)), 0)
		FROM "@SGS_PRJ_OTMS"
		WHERE "Code" IS NOT NULL AND "Code" != ''`).Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}
