package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "akademiku_backend/internals/features/finance/ledger/model"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
)

// ErrNothingPending: guru tidak punya saldo tertunda untuk diselesaikan.
var ErrNothingPending = errors.New("tidak ada saldo pending untuk diselesaikan")

// SettlePending memindahkan seluruh saldo pending guru ke verified (event
// settlement eksplisit — satu-satunya jalan lain verified bertambah selain
// entri partner yang lahir verified), lalu menandai snapshot split entri
// tertunda miliknya sebagai sudah terbayar. Amount entri tidak pernah
// disentuh; hanya flag audit paid-out yang berubah.
func SettlePending(ctx context.Context, db *gorm.DB, schoolID, teacherID uuid.UUID) (int, error) {
	settled := 0

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&teacherModel.Teacher{}).
			Where("teacher_id = ? AND teacher_school_id = ?", teacherID, schoolID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var teacher teacherModel.Teacher
		if err := q.Take(&teacher).Error; err != nil {
			return err
		}
		if teacher.TeacherBalancePendingIDR <= 0 {
			return ErrNothingPending
		}
		settled = teacher.TeacherBalancePendingIDR

		if err := tx.Model(&teacherModel.Teacher{}).
			Where("teacher_id = ?", teacherID).
			UpdateColumns(map[string]interface{}{
				"teacher_balance_pending_idr":  gorm.Expr("teacher_balance_pending_idr - ?", settled),
				"teacher_balance_verified_idr": gorm.Expr("teacher_balance_verified_idr + ?", settled),
			}).Error; err != nil {
			return err
		}

		// tandai jejak audit: bagian guru pada entri tertunda sudah dibayar
		var entries []model.LedgerEntry
		if err := tx.
			Where("ledger_entry_teacher_id = ?", teacherID).
			Where("ledger_entry_share_deferred = ?", true).
			Where("ledger_entry_split IS NOT NULL").
			Find(&entries).Error; err != nil {
			return err
		}
		for _, e := range entries {
			if e.LedgerEntrySplit == nil || e.LedgerEntrySplit.TeacherPaidOut {
				continue
			}
			e.LedgerEntrySplit.TeacherPaidOut = true
			// serialize manual: UpdateColumn dengan nama kolom string tidak
			// melewati serializer json milik field model
			raw, err := json.Marshal(e.LedgerEntrySplit)
			if err != nil {
				return err
			}
			if err := tx.Model(&model.LedgerEntry{}).
				Where("ledger_entry_id = ?", e.LedgerEntryID).
				UpdateColumn("ledger_entry_split", datatypes.JSON(raw)).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}
	return settled, nil
}
