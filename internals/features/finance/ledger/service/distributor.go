package service

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	settingService "akademiku_backend/internals/features/finance/settings/service"
	classModel "akademiku_backend/internals/features/school/classes/model"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
)

/* ===================== Input / output ===================== */

// SubjectShare: satu mapel terdaftar dengan tarif terkunci saat enrollment
// (tidak di-lookup hidup). Urutan list dipertahankan.
type SubjectShare struct {
	Subject      string
	LockedFeeIDR int
}

// PaymentEvent: input tunggal distributor dari alur penagihan.
type PaymentEvent struct {
	SchoolID        uuid.UUID
	StudentID       uuid.UUID
	ClassID         uuid.UUID
	PaidAmountIDR   int
	PaymentKind     string // regular | exam_prep
	GradeTrack      string
	Subjects        []SubjectShare
	CollectorUserID uuid.UUID
	Date            time.Time
}

// SubjectDistribution: rincian per mapel untuk kuitansi/audit.
type SubjectDistribution struct {
	Subject         string     `json:"subject"`
	ShareIDR        int        `json:"share_idr"`
	TeacherID       *uuid.UUID `json:"teacher_id,omitempty"`
	TeacherShareIDR int        `json:"teacher_share_idr"`
	PoolShareIDR    int        `json:"pool_share_idr"`
	SplitTag        string     `json:"split_tag"`
	Unattributed    bool       `json:"unattributed"`
}

type DistributionResult struct {
	BatchID         uuid.UUID             `json:"batch_id"`
	TotalTeacherIDR int                   `json:"total_teacher_idr"`
	TotalPoolIDR    int                   `json:"total_pool_idr"`
	Subjects        []SubjectDistribution `json:"subjects"`
}

/* ===================== Distributor ===================== */

type Distributor struct {
	DB *gorm.DB
}

func NewDistributor(db *gorm.DB) *Distributor {
	return &Distributor{DB: db}
}

// Distribute membagi satu pembayaran multi-mapel: porsi per mapel menurut
// tarif terkunci, resolve guru per mapel, lalu split + tulis ledger per
// mapel. Seluruh entri dari satu pembayaran berbagi SATU batch id dan
// ditulis dalam satu transaksi (all-or-nothing).
func (d *Distributor) Distribute(ctx context.Context, ev PaymentEvent) (*DistributionResult, error) {
	if ev.PaidAmountIDR <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Nominal pembayaran harus lebih dari 0")
	}
	if len(ev.Subjects) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Daftar mapel tidak boleh kosong")
	}
	if ev.CollectorUserID == uuid.Nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Kolektor wajib diisi")
	}

	db := d.DB.WithContext(ctx)

	var class classModel.Class
	if err := db.
		Where("class_id = ? AND class_school_id = ?", ev.ClassID, ev.SchoolID).
		Take(&class).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return nil, err
	}

	setting, err := settingService.GetOrCreate(db, ev.SchoolID)
	if err != nil {
		return nil, err
	}
	policy := PolicyFromSetting(setting)

	shares := ApportionShares(ev.PaidAmountIDR, lockedFees(ev.Subjects))

	result := &DistributionResult{BatchID: uuid.New()}

	err = db.Transaction(func(tx *gorm.DB) error {
		for i, sub := range ev.Subjects {
			share := shares[i]
			dist := SubjectDistribution{Subject: sub.Subject, ShareIDR: share}

			if share <= 0 {
				result.Subjects = append(result.Subjects, dist)
				continue
			}

			teacherID := class.ResolveSubjectTeacher(sub.Subject)
			var teacher *teacherModel.Teacher
			if teacherID != nil {
				teacher, err = findTeacher(tx, ev.SchoolID, *teacherID)
				if err != nil {
					return err
				}
			}

			pctx := PaymentContext{
				SchoolID:        ev.SchoolID,
				StudentID:       &ev.StudentID,
				CollectorUserID: ev.CollectorUserID,
				Subject:         sub.Subject,
				Date:            ev.Date,
			}

			var split SplitResult
			if teacher == nil {
				// gap atribusi (mapping kosong ATAU menunjuk guru yang sudah
				// tidak ada): uang tetap dicatat, masuk pool unallocated —
				// mapel lain dalam batch tidak boleh ikut gagal
				log.Printf("[WARN] distribusi: guru tidak teratribusi untuk mapel %q (kelas %s), share %d → pool",
					sub.Subject, ev.ClassID, share)
				split = UnallocatedSplit(share, ev.GradeTrack)
				dist.Unattributed = true
			} else {
				pctx.TeacherID = teacherID
				split = ComputeSplit(share, ev.GradeTrack, ev.PaymentKind, sub.Subject, teacher.TeacherRole, policy)
			}
			dist.SplitTag = split.Tag
			dist.TeacherShareIDR = split.TeacherCommissionIDR() + split.TeacherTuitionIDR()
			dist.PoolShareIDR = split.PoolIDR()

			if _, err := WriteSplit(tx, split, pctx, result.BatchID); err != nil {
				return err
			}

			result.TotalTeacherIDR += dist.TeacherShareIDR
			result.TotalPoolIDR += dist.PoolShareIDR
			result.Subjects = append(result.Subjects, dist)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// findTeacher: nil tanpa error kalau guru tidak ada — keputusan fatal/tidak
// ada di pemanggil, bukan di sini.
func findTeacher(tx *gorm.DB, schoolID, teacherID uuid.UUID) (*teacherModel.Teacher, error) {
	var t teacherModel.Teacher
	if err := tx.
		Where("teacher_id = ? AND teacher_school_id = ?", teacherID, schoolID).
		Take(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func lockedFees(subjects []SubjectShare) []int {
	fees := make([]int, len(subjects))
	for i, s := range subjects {
		fees[i] = s.LockedFeeIDR
	}
	return fees
}

/* ===================== Pembagian porsi ===================== */

// ApportionShares membagi paid menurut bobot tarif terkunci per mapel.
// Sisa pembulatan direkonsiliasi ke mapel non-nol terakhir sehingga jumlah
// porsi selalu sama persis dengan paid. Total bobot nol → bagi rata
// (fallback degenerate, sisa juga ke mapel terakhir).
func ApportionShares(paid int, fees []int) []int {
	n := len(fees)
	shares := make([]int, n)
	if n == 0 || paid <= 0 {
		return shares
	}

	total := 0
	for _, f := range fees {
		total += f
	}

	if total <= 0 {
		base := paid / n
		for i := range shares {
			shares[i] = base
		}
		shares[n-1] += paid - base*n
		return shares
	}

	sum := 0
	for i, f := range fees {
		// round half up dengan aritmetika int64 agar tidak overflow
		shares[i] = int((int64(paid)*int64(f) + int64(total)/2) / int64(total))
		sum += shares[i]
	}

	// rekonsiliasi drift pembulatan ke mapel non-nol terakhir
	if drift := paid - sum; drift != 0 {
		idx := n - 1
		for i := n - 1; i >= 0; i-- {
			if shares[i] > 0 {
				idx = i
				break
			}
		}
		shares[idx] += drift
	}

	return shares
}
