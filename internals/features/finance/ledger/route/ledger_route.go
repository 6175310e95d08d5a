package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/constants"
	"akademiku_backend/internals/features/finance/ledger/controller"
	middlewares "akademiku_backend/internals/middlewares"
	authmw "akademiku_backend/internals/middlewares/auth"
)

// LedgerAdminRoutes dipasang di group /api/a (admin ke atas).
func LedgerAdminRoutes(admin fiber.Router, db *gorm.DB) {
	queryCtrl := controller.NewLedgerQueryController(db)
	closingCtrl := controller.NewClosingController(db)
	balanceCtrl := controller.NewBalanceController(db)

	admin.Get("/ledger-entries", queryCtrl.List)
	admin.Get("/closings", closingCtrl.List)

	admin.Get("/teachers/:id/balance", balanceCtrl.TeacherBalance)
	admin.Post("/teachers/:id/settle-pending",
		authmw.OnlyRoles(constants.RoleErrorOwner("pencairan saldo pending pengajar"), constants.OwnerAndAbove...),
		balanceCtrl.SettlePending,
	)
}

// LedgerCollectorRoutes dipasang di group /api/c (kolektor ke atas).
func LedgerCollectorRoutes(collector fiber.Router, db *gorm.DB) {
	closingCtrl := controller.NewClosingController(db)

	collector.Post("/closings/close-day",
		middlewares.ClosingRateLimiter(),
		closingCtrl.CloseDay,
	)
}
