package service

import (
	"strings"

	settingModel "akademiku_backend/internals/features/finance/settings/model"
	model "akademiku_backend/internals/features/finance/ledger/model"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
)

/* ===================== Jenis pembayaran ===================== */

const (
	PaymentKindRegular  = "regular"
	PaymentKindExamPrep = "exam_prep"
)

/* ===================== Policy ===================== */

// Policy: nilai kebijakan immutable yang dimuat sekali per operasi,
// lalu di-inject ke kalkulator (bukan state global).
type Policy struct {
	StaffTeacherSharePercent int
	StaffAcademySharePercent int
	ExamPrepCommissionIDR    int
	Partner100Active         bool
}

// DefaultPolicy: dipakai saat konfigurasi belum pernah dibuat.
func DefaultPolicy() Policy {
	return Policy{
		StaffTeacherSharePercent: settingModel.DefaultStaffTeacherSharePercent,
		StaffAcademySharePercent: settingModel.DefaultStaffAcademySharePercent,
		ExamPrepCommissionIDR:    settingModel.DefaultExamPrepCommissionIDR,
		Partner100Active:         settingModel.DefaultPartner100Active,
	}
}

func PolicyFromSetting(s settingModel.PolicySetting) Policy {
	return Policy{
		StaffTeacherSharePercent: s.PolicySettingStaffTeacherSharePercent,
		StaffAcademySharePercent: s.PolicySettingStaffAcademySharePercent,
		ExamPrepCommissionIDR:    s.PolicySettingExamPrepCommissionIDR,
		Partner100Active:         s.PolicySettingPartner100Active,
	}
}

/* ===================== SplitResult ===================== */

// Tag kebijakan yang menghasilkan split (varian, bukan kantong field opsional).
const (
	SplitTagZero            = "zero"
	SplitTagExamPrepPartner = "exam_prep_partner"
	SplitTagExamPrepStaff   = "exam_prep_staff"
	SplitTagPartnerFull     = "partner_full"
	SplitTagStaffDefault    = "staff_default"
	SplitTagUnallocated     = "unallocated"
)

const (
	ComponentCommission = "commission"
	ComponentTuition    = "tuition"
	ComponentPool       = "pool"
)

// SplitComponent: satu bagian nominal hasil split. Writer mempersist apa
// adanya tanpa menurunkan ulang kebijakan.
type SplitComponent struct {
	Kind      string // commission | tuition | pool
	AmountIDR int
	Category  string
	Stream    string
	Status    string // floating | verified
	Deferred  bool   // bagian guru masuk pending, bukan verified
}

type SplitResult struct {
	Tag           string
	GradeCategory string
	Components    []SplitComponent
}

func (r SplitResult) sumKind(kind string) int {
	total := 0
	for _, c := range r.Components {
		if c.Kind == kind {
			total += c.AmountIDR
		}
	}
	return total
}

func (r SplitResult) TeacherCommissionIDR() int { return r.sumKind(ComponentCommission) }
func (r SplitResult) TeacherTuitionIDR() int    { return r.sumKind(ComponentTuition) }
func (r SplitResult) PoolIDR() int              { return r.sumKind(ComponentPool) }

func (r SplitResult) TotalIDR() int {
	total := 0
	for _, c := range r.Components {
		total += c.AmountIDR
	}
	return total
}

/* ===================== Kalkulator ===================== */

// ComputeSplit: fungsi keputusan murni. Urutan aturan (yang cocok pertama
// menang, saling eksklusif):
//  1. program intensif ujian (komisi tetap per siswa)
//  2. aturan partner-100 untuk owner/partner
//  3. bagi hasil default staff (persentase dari policy)
//
// Invariant: jumlah seluruh komponen == feeIDR; sisa pembulatan selalu
// jatuh ke sisi pool, tidak pernah hilang.
func ComputeSplit(feeIDR int, gradeTrack, paymentKind, subject, teacherRole string, policy Policy) SplitResult {
	gradeCat := ClassifyGradeTrack(gradeTrack)
	if feeIDR <= 0 {
		return SplitResult{Tag: SplitTagZero, GradeCategory: gradeCat}
	}

	role := strings.ToLower(strings.TrimSpace(teacherRole))
	partnerLevel := role == teacherModel.TeacherRoleOwner || role == teacherModel.TeacherRolePartner

	// ===== 1) Program intensif ujian =====
	if paymentKind == PaymentKindExamPrep {
		commission := policy.ExamPrepCommissionIDR
		if commission > feeIDR {
			// komisi tidak boleh melebihi fee
			commission = feeIDR
		}
		remainder := feeIDR - commission

		if partnerLevel && policy.Partner100Active {
			// owner/partner: komisi + sisa fee seluruhnya, langsung verified
			res := SplitResult{Tag: SplitTagExamPrepPartner, GradeCategory: gradeCat}
			if commission > 0 {
				res.Components = append(res.Components, SplitComponent{
					Kind:      ComponentCommission,
					AmountIDR: commission,
					Category:  model.LedgerCategorySubjectRevenue,
					Stream:    model.LedgerStreamExamPrepCommission,
					Status:    model.LedgerStatusVerified,
				})
			}
			if remainder > 0 {
				res.Components = append(res.Components, SplitComponent{
					Kind:      ComponentTuition,
					AmountIDR: remainder,
					Category:  model.LedgerCategoryTuition,
					Stream:    model.LedgerStreamGenericTuition,
					Status:    model.LedgerStatusVerified,
				})
			}
			return res
		}

		// staff: komisi tertunda (floating/pending), sisa ke pool intensif (verified)
		res := SplitResult{Tag: SplitTagExamPrepStaff, GradeCategory: gradeCat}
		if commission > 0 {
			res.Components = append(res.Components, SplitComponent{
				Kind:      ComponentCommission,
				AmountIDR: commission,
				Category:  model.LedgerCategorySubjectRevenue,
				Stream:    model.LedgerStreamExamPrepCommission,
				Status:    model.LedgerStatusFloating,
				Deferred:  true,
			})
		}
		if remainder > 0 {
			res.Components = append(res.Components, SplitComponent{
				Kind:      ComponentPool,
				AmountIDR: remainder,
				Category:  model.LedgerCategoryPool,
				Stream:    model.LedgerStreamExamPrepPool,
				Status:    model.LedgerStatusVerified,
			})
		}
		return res
	}

	// ===== 2) Partner-100, non intensif =====
	if policy.Partner100Active && partnerLevel {
		return SplitResult{
			Tag:           SplitTagPartnerFull,
			GradeCategory: gradeCat,
			Components: []SplitComponent{{
				Kind:      ComponentTuition,
				AmountIDR: feeIDR,
				Category:  model.LedgerCategorySubjectRevenue,
				Stream:    ClassifySubjectStream(role, subject),
				Status:    model.LedgerStatusVerified,
			}},
		}
	}

	// ===== 3) Bagi hasil default staff =====
	teacherShare := roundPercent(feeIDR, policy.StaffTeacherSharePercent)
	// pool dihitung dari pengurangan, tidak pernah dibulatkan sendiri
	poolShare := feeIDR - teacherShare

	res := SplitResult{Tag: SplitTagStaffDefault, GradeCategory: gradeCat}
	if teacherShare > 0 {
		res.Components = append(res.Components, SplitComponent{
			Kind:      ComponentTuition,
			AmountIDR: teacherShare,
			Category:  model.LedgerCategoryTuition,
			Stream:    model.LedgerStreamStaffTuition,
			Status:    model.LedgerStatusFloating,
			Deferred:  true,
		})
	}
	if poolShare > 0 {
		res.Components = append(res.Components, SplitComponent{
			Kind:      ComponentPool,
			AmountIDR: poolShare,
			Category:  model.LedgerCategoryPool,
			Stream:    model.LedgerStreamUnallocatedPool,
			Status:    model.LedgerStatusVerified,
		})
	}
	return res
}

// UnallocatedSplit: share yang tidak teratribusi ke guru manapun dialihkan
// eksplisit ke pool (tidak pernah di-drop diam-diam).
func UnallocatedSplit(amountIDR int, gradeTrack string) SplitResult {
	res := SplitResult{Tag: SplitTagUnallocated, GradeCategory: ClassifyGradeTrack(gradeTrack)}
	if amountIDR > 0 {
		res.Components = append(res.Components, SplitComponent{
			Kind:      ComponentPool,
			AmountIDR: amountIDR,
			Category:  model.LedgerCategoryPool,
			Stream:    model.LedgerStreamUnallocatedPool,
			Status:    model.LedgerStatusVerified,
		})
	}
	return res
}

// roundPercent: round(amount × pct / 100), half up, aritmetika integer.
func roundPercent(amount, pct int) int {
	return (amount*pct + 50) / 100
}
