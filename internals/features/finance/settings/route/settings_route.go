package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/constants"
	"akademiku_backend/internals/features/finance/settings/controller"
	authmw "akademiku_backend/internals/middlewares/auth"
)

// SettingsAdminRoutes dipasang di group /api/a (admin ke atas).
// Update kebijakan bagi hasil khusus owner.
func SettingsAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPolicySettingController(db)

	settings := admin.Group("/policy-settings")
	settings.Get("/", ctrl.Get)
	settings.Put("/",
		authmw.OnlyRoles(constants.RoleErrorOwner("mengubah kebijakan bagi hasil"), constants.OwnerAndAbove...),
		ctrl.Update,
	)
}
