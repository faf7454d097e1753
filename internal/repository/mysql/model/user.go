package model

import (
	"time"

	"github.com/threadboard/comments/domain"
)

type User struct {
	ID               string    `gorm:"type:char(36);primaryKey"`
	FullName         string    `gorm:"column:full_name;type:varchar(255);not null"`
	Email            string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash     string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Status           string    `gorm:"type:varchar(16);not null;default:PENDING"`
	Role             string    `gorm:"type:varchar(16);not null;default:USER"`
	LastActivityDate time.Time `gorm:"column:last_activity_date;type:date"`
	CreatedAt        time.Time `gorm:"type:timestamp(6)"`
}

func (User) TableName() string {
	return "users"
}

func NewUserFromDomain(u *domain.User) *User {
	return &User{
		ID:               u.ID,
		FullName:         u.FullName,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		Status:           string(u.Status),
		Role:             string(u.Role),
		LastActivityDate: u.LastActivityDate,
		CreatedAt:        u.CreatedAt,
	}
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:               m.ID,
		FullName:         m.FullName,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		Status:           domain.UserStatus(m.Status),
		Role:             domain.UserRole(m.Role),
		LastActivityDate: m.LastActivityDate,
		CreatedAt:        m.CreatedAt,
	}
}
