package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FirstName   string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string     `gorm:"type:varchar(100);not null" json:"last_name"`
	MiddleName  *string    `gorm:"type:varchar(100)" json:"middle_name,omitempty"`
	Email       string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone       string     `gorm:"type:varchar(20);not null" json:"phone"`
	Password    string     `gorm:"type:varchar(255);not null" json:"-"`
	BVN         *string    `gorm:"type:varchar(11);column:bvn" json:"-"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Address     *string    `gorm:"type:varchar(255)" json:"address,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
