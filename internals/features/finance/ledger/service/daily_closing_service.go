package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "akademiku_backend/internals/features/finance/ledger/model"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
	userModel "akademiku_backend/internals/features/users/user/model"
)

// ErrNothingToClose: hasil yang diharapkan (bukan crash) saat kolektor
// tidak punya entri floating; dibedakan dari kegagalan storage.
var ErrNothingToClose = errors.New("tidak ada entri floating untuk ditutup")

type ClosingService struct {
	DB *gorm.DB
}

func NewClosingService(db *gorm.DB) *ClosingService {
	return &ClosingService{DB: db}
}

// CloseDay menutup kasir satu kolektor: kunci semua entri income floating
// miliknya, jumlahkan + rinci per kategori, buat DailyClosing immutable,
// flip entri ke verified dengan stempel closing id, lalu kredit dompet
// verified kolektor. Seluruh langkah atomik dalam satu transaksi; closing
// konkuren untuk kolektor yang sama terserialisasi lewat row lock.
func (s *ClosingService) CloseDay(ctx context.Context, schoolID, collectorUserID uuid.UUID, note *string) (*model.DailyClosing, error) {
	var closing *model.DailyClosing

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.LedgerEntry{}).
			Where("ledger_entry_school_id = ?", schoolID).
			Where("ledger_entry_collector_user_id = ?", collectorUserID).
			Where("ledger_entry_status = ?", model.LedgerStatusFloating).
			Where("ledger_entry_kind = ?", model.LedgerKindIncome)
		if tx.Dialector.Name() == "postgres" {
			// sqlite (tes) tidak mendukung FOR UPDATE
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var entries []model.LedgerEntry
		if err := q.Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrNothingToClose
		}

		total := 0
		var subjectRevenue, tuition, pool, other int
		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			total += e.LedgerEntryAmountIDR
			switch e.LedgerEntryCategory {
			case model.LedgerCategorySubjectRevenue:
				subjectRevenue += e.LedgerEntryAmountIDR
			case model.LedgerCategoryTuition:
				tuition += e.LedgerEntryAmountIDR
			case model.LedgerCategoryPool:
				pool += e.LedgerEntryAmountIDR
			default:
				// kategori tak dikenal tetap masuk total, dilipat ke other
				other += e.LedgerEntryAmountIDR
			}
			ids = append(ids, e.LedgerEntryID)
		}

		rec := model.DailyClosing{
			ClosingID:                uuid.New(),
			ClosingSchoolID:          schoolID,
			ClosingCollectorUserID:   collectorUserID,
			ClosingTotalIDR:          total,
			ClosingSubjectRevenueIDR: subjectRevenue,
			ClosingTuitionIDR:        tuition,
			ClosingPoolIDR:           pool,
			ClosingOtherIDR:          other,
			ClosingEntryCount:        len(entries),
			ClosingStatus:            model.ClosingStatusVerified,
			ClosingNote:              note,
			ClosingDate:              time.Now(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}

		// flip floating → verified; guard status di WHERE supaya entri yang
		// keburu berubah tidak terhitung dobel
		res := tx.Model(&model.LedgerEntry{}).
			Where("ledger_entry_id IN ?", ids).
			Where("ledger_entry_status = ?", model.LedgerStatusFloating).
			Updates(map[string]interface{}{
				"ledger_entry_status":     model.LedgerStatusVerified,
				"ledger_entry_closing_id": rec.ClosingID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return errors.New("closing bentrok: sebagian entri berubah status di tengah jalan")
		}

		// dompet kolektor: floating turun, verified naik — increment atomik
		if err := tx.Model(&userModel.User{}).
			Where("user_id = ?", collectorUserID).
			UpdateColumns(map[string]interface{}{
				"user_wallet_floating_idr": gorm.Expr("user_wallet_floating_idr - ?", total),
				"user_wallet_verified_idr": gorm.Expr("user_wallet_verified_idr + ?", total),
			}).Error; err != nil {
			return err
		}

		// cermin guru-kolektor: saldo floating guru turun sejumlah yang disetor
		if err := tx.Model(&teacherModel.Teacher{}).
			Where("teacher_user_id = ?", collectorUserID).
			UpdateColumn("teacher_balance_floating_idr",
				gorm.Expr("teacher_balance_floating_idr - ?", total)).Error; err != nil {
			return err
		}

		closing = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closing, nil
}
