package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "akademiku_backend/internals/features/finance/ledger/model"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
	userModel "akademiku_backend/internals/features/users/user/model"
)

// PaymentContext: konteks siswa/guru/kolektor dari satu pembayaran,
// dilewatkan ke writer bersama hasil split.
type PaymentContext struct {
	SchoolID        uuid.UUID
	StudentID       *uuid.UUID
	TeacherID       *uuid.UUID
	CollectorUserID uuid.UUID
	Subject         string
	Date            time.Time
}

// WriteSplit mempersist satu entri per komponen non-nol dari split, semuanya
// dengan batch id yang sama, lalu menaikkan saldo guru (verified/pending)
// dan kas floating kolektor. Status/category/stream diambil apa adanya dari
// split — writer tidak menurunkan ulang kebijakan.
//
// Wajib dipanggil di dalam transaksi: kegagalan satu entri membatalkan
// seluruh batch (tidak boleh ada batch parsial yang tersisa).
func WriteSplit(tx *gorm.DB, split SplitResult, pctx PaymentContext, batchID uuid.UUID) ([]model.LedgerEntry, error) {
	if batchID == uuid.Nil {
		batchID = uuid.New()
	}
	date := pctx.Date
	if date.IsZero() {
		date = time.Now()
	}

	var subject *string
	if pctx.Subject != "" {
		s := pctx.Subject
		subject = &s
	}

	snapshot := buildSplitSnapshot(split)

	entries := make([]model.LedgerEntry, 0, len(split.Components))
	for _, comp := range split.Components {
		if comp.AmountIDR <= 0 {
			continue
		}

		entry := model.LedgerEntry{
			LedgerEntryID:              uuid.New(),
			LedgerEntrySchoolID:        pctx.SchoolID,
			LedgerEntryKind:            model.LedgerKindIncome,
			LedgerEntryCategory:        comp.Category,
			LedgerEntryStream:          comp.Stream,
			LedgerEntryStatus:          comp.Status,
			LedgerEntryAmountIDR:       comp.AmountIDR,
			LedgerEntryBatchID:         batchID,
			LedgerEntryCollectorUserID: pctx.CollectorUserID,
			LedgerEntryStudentID:       pctx.StudentID,
			LedgerEntrySubject:         subject,
			LedgerEntryGradeCategory:   split.GradeCategory,
			LedgerEntryShareDeferred:   comp.Deferred,
			LedgerEntryDate:            date,
		}
		if comp.Kind != ComponentPool {
			entry.LedgerEntryTeacherID = pctx.TeacherID
			entry.LedgerEntrySplit = snapshot
		}

		if err := tx.Create(&entry).Error; err != nil {
			return nil, fmt.Errorf("tulis ledger entry (batch %s): %w", batchID, err)
		}
		entries = append(entries, entry)

		if err := applyBalanceEffect(tx, comp, pctx); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// buildSplitSnapshot: jejak audit persentase & nominal; hanya dibuat jika
// ada bagian guru dalam split.
func buildSplitSnapshot(split SplitResult) *model.LedgerSplitSnapshot {
	teacherShare := split.TeacherCommissionIDR() + split.TeacherTuitionIDR()
	if teacherShare == 0 {
		return nil
	}
	pool := split.PoolIDR()
	total := teacherShare + pool

	snap := &model.LedgerSplitSnapshot{
		TeacherShareIDR: teacherShare,
		AcademyShareIDR: pool,
	}
	if total > 0 {
		snap.TeacherPercent = teacherShare * 100 / total
		snap.AcademyPercent = 100 - snap.TeacherPercent
	}
	// bagian guru yang langsung verified dianggap sudah terbayar
	snap.TeacherPaidOut = !splitHasDeferredShare(split)
	return snap
}

func splitHasDeferredShare(split SplitResult) bool {
	for _, c := range split.Components {
		if c.Kind != ComponentPool && c.Deferred {
			return true
		}
	}
	return false
}

// applyBalanceEffect: increment atomik di SQL (bukan read-modify-write),
// supaya pembayaran konkuren untuk guru yang sama tidak kehilangan update.
func applyBalanceEffect(tx *gorm.DB, comp SplitComponent, pctx PaymentContext) error {
	// bagian guru → pending (tertunda) atau verified (langsung dibayar)
	if comp.Kind != ComponentPool && pctx.TeacherID != nil {
		column := "teacher_balance_verified_idr"
		if comp.Deferred {
			column = "teacher_balance_pending_idr"
		}
		res := tx.Model(&teacherModel.Teacher{}).
			Where("teacher_id = ?", *pctx.TeacherID).
			UpdateColumn(column, gorm.Expr(column+" + ?", comp.AmountIDR))
		if res.Error != nil {
			return fmt.Errorf("update saldo guru %s: %w", pctx.TeacherID, res.Error)
		}
	}

	// entri floating = kas fisik masih di tangan kolektor
	if comp.Status == model.LedgerStatusFloating {
		res := tx.Model(&userModel.User{}).
			Where("user_id = ?", pctx.CollectorUserID).
			UpdateColumn("user_wallet_floating_idr", gorm.Expr("user_wallet_floating_idr + ?", comp.AmountIDR))
		if res.Error != nil {
			return fmt.Errorf("update kas floating kolektor %s: %w", pctx.CollectorUserID, res.Error)
		}
		// kolektor yang juga guru: cermin di saldo floating guru, supaya
		// laporan per guru ikut menampilkan kas yang belum disetor
		res = tx.Model(&teacherModel.Teacher{}).
			Where("teacher_user_id = ?", pctx.CollectorUserID).
			UpdateColumn("teacher_balance_floating_idr", gorm.Expr("teacher_balance_floating_idr + ?", comp.AmountIDR))
		if res.Error != nil {
			return fmt.Errorf("update saldo floating guru-kolektor %s: %w", pctx.CollectorUserID, res.Error)
		}
	}

	return nil
}
