package models

import "gorm.io/gorm"

type Favorite struct {
	gorm.Model
	UserID            uint       `gorm:"not null;index:idx_favorites_user_experience,unique" json:"userId"`
	ExperienceID      uint       `gorm:"not null;index:idx_favorites_user_experience,unique" json:"experienceId"`
	Experience        Experience `json:"experience"`
	NotifyOnPriceDrop bool       `gorm:"default:false" json:"notifyOnPriceDrop"`
	NotifyOnNewDates  bool       `gorm:"default:false" json:"notifyOnNewDates"`
}
