package constants

import "fmt"

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleOwner     = "owner"
	RolePartner   = "partner"
	RoleStaff     = "staff"
	RoleCollector = "collector"
)

// Template pesan error role
const (
	ErrOnlyOwnersCanAccess     = "❌ Hanya owner yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess     = "❌ Hanya admin atau owner yang boleh mengakses fitur %s."
	ErrOnlyCollectorsCanAccess = "❌ Hanya kolektor (kasir) yang boleh mengakses fitur %s."
)

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorCollector(feature string) string {
	return fmt.Sprintf(ErrOnlyCollectorsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleAdmin,
		RoleOwner,
		RolePartner,
		RoleStaff,
		RoleCollector,
	}

	OwnerAndAbove = []string{
		RoleOwner,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleOwner,
	}

	CollectorAndAbove = []string{
		RoleCollector,
		RoleAdmin,
		RoleOwner,
	}

	TeachingRoles = []string{
		RoleOwner,
		RolePartner,
		RoleStaff,
	}
)
