package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name           string `json:"name"`
	Email          string `json:"email" gorm:"uniqueIndex;not null"`
	Password       string `json:"-"`
	GoogleID       string `json:"-" gorm:"index"`
	GithubID       string `json:"-" gorm:"index"`
	AvatarURL      string `json:"avatarURL"`
	SocialLogin    bool   `json:"socialLogin"`
	SocialProvider string `json:"socialProvider"`
}
