package models

// UserModel is the admin account. The panel is single-operator; rows are
// seeded from config at startup.
type UserModel struct {
	Base
	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-"        gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }
