package service

import (
	"strings"

	model "akademiku_backend/internals/features/finance/ledger/model"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
)

/* ===================== Klasifikasi mapel → stream ===================== */

// Tabel klasifikasi eksplisit (bukan pattern-matching inline), dengan
// fallback "tidak terklasifikasi" → stream SPP umum.
var subjectStreamTable = []struct {
	keywords []string
	stream   string
}{
	{[]string{"biologi", "biology", "zoologi", "zoology", "botani", "botany"}, model.LedgerStreamPartnerBiology},
	{[]string{"fisika", "physics"}, model.LedgerStreamPartnerPhysics},
}

// ClassifySubjectStream memilih stream pendapatan untuk aturan partner-100.
// Owner selalu memakai stream khusus owner; partner non-owner dipetakan
// lewat tabel kata kunci mapel.
func ClassifySubjectStream(teacherRole, subject string) string {
	if strings.ToLower(strings.TrimSpace(teacherRole)) == teacherModel.TeacherRoleOwner {
		return model.LedgerStreamOwnerSubject
	}
	s := strings.ToLower(strings.TrimSpace(subject))
	for _, row := range subjectStreamTable {
		for _, kw := range row.keywords {
			if strings.Contains(s, kw) {
				return row.stream
			}
		}
	}
	return model.LedgerStreamGenericTuition
}

/* ===================== Klasifikasi jenjang (pelaporan) ===================== */

const (
	GradeCategorySD       = "sd"
	GradeCategorySMP      = "smp"
	GradeCategorySMA      = "sma"
	GradeCategoryExamPrep = "exam_prep"
	GradeCategoryOther    = "other"
)

var gradeTrackTable = []struct {
	keywords []string
	category string
}{
	{[]string{"intensif", "utbk", "alumni", "gap year"}, GradeCategoryExamPrep},
	{[]string{"sd", "mi"}, GradeCategorySD},
	{[]string{"smp", "mts"}, GradeCategorySMP},
	{[]string{"sma", "smk", "ma"}, GradeCategorySMA},
}

// ClassifyGradeTrack: kategori jenjang dari label bebas, hanya untuk
// pelaporan — tidak mempengaruhi aliran uang.
func ClassifyGradeTrack(gradeTrack string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(gradeTrack)))
	for _, row := range gradeTrackTable {
		for _, kw := range row.keywords {
			for _, f := range fields {
				if f == kw || strings.HasPrefix(f, kw+"-") {
					return row.category
				}
			}
			// frasa multi-kata ("gap year")
			if strings.Contains(" "+strings.Join(fields, " ")+" ", " "+kw+" ") {
				return row.category
			}
		}
	}
	return GradeCategoryOther
}
