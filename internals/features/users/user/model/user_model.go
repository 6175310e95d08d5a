package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	UserSchoolID *uuid.UUID `gorm:"column:user_school_id;type:uuid;index" json:"user_school_id,omitempty"`

	UserName     string `gorm:"column:user_name;not null;uniqueIndex" json:"user_name"`
	UserEmail    string `gorm:"column:user_email;not null;uniqueIndex" json:"user_email"`
	UserPassword string `gorm:"column:user_password;not null" json:"-"`

	// roles: ["collector"], ["owner"], dst — masuk ke klaim JWT saat login.
	UserRoles datatypes.JSON `gorm:"column:user_roles;type:jsonb" json:"user_roles,omitempty"`

	// Dompet kolektor (IDR): floating = kas hasil tagihan yang belum disetor/diverifikasi,
	// verified = kas terkonfirmasi lewat closing harian.
	UserWalletFloatingIDR int `gorm:"column:user_wallet_floating_idr;not null;default:0" json:"user_wallet_floating_idr"`
	UserWalletVerifiedIDR int `gorm:"column:user_wallet_verified_idr;not null;default:0" json:"user_wallet_verified_idr"`

	CreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }

/* ===================== Helpers ===================== */

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.UserPassword = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.UserPassword), []byte(plain)) == nil
}
