package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/configs"
	"akademiku_backend/internals/constants"
	ledgerRoute "akademiku_backend/internals/features/finance/ledger/route"
	paymentRoute "akademiku_backend/internals/features/finance/payments/route"
	settingsRoute "akademiku_backend/internals/features/finance/settings/route"
	authRoute "akademiku_backend/internals/features/users/auth/route"
	middlewares "akademiku_backend/internals/middlewares"
	authmw "akademiku_backend/internals/middlewares/auth"
)

// SetupRoutes menyusun seluruh endpoint:
//
//	/api/auth    -> login (public, rate-limited)
//	/api/public  -> webhook gateway (tanpa JWT)
//	/api/a       -> admin & owner (kebijakan, laporan, saldo pengajar)
//	/api/c       -> kolektor ke atas (terima pembayaran, tutup hari)
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api", middlewares.GlobalRateLimiter())

	// Public
	authRoute.AuthRoutes(api, db)
	paymentRoute.PaymentPublicRoutes(api.Group("/public"), db)

	jwt := authmw.AuthJWT(authmw.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// Admin & owner
	admin := api.Group("/a",
		jwt,
		authmw.OnlyRoles(constants.RoleErrorAdmin("administrasi keuangan"), constants.AdminAndAbove...),
	)
	settingsRoute.SettingsAdminRoutes(admin, db)
	ledgerRoute.LedgerAdminRoutes(admin, db)

	// Kolektor (kasir)
	collector := api.Group("/c",
		jwt,
		authmw.OnlyRoles(constants.RoleErrorCollector("penerimaan pembayaran"), constants.CollectorAndAbove...),
	)
	paymentRoute.PaymentCollectorRoutes(collector, db)
	ledgerRoute.LedgerCollectorRoutes(collector, db)
}
