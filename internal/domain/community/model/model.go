package model

import (
	"time"
)

type User struct {
	UserID       int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Nickname     string `gorm:"uniqueIndex;not null"`
	Image        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Post struct {
	PostID    int64  `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	Image     string
	Likes     int `gorm:"not null;default:0"`
	Views     int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	CommentID int64  `gorm:"primaryKey;autoIncrement"`
	PostID    int64  `gorm:"index;not null"`
	UserID    int64  `gorm:"index;not null"`
	Content   string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Upload is an image received from the client, already read into memory.
type Upload struct {
	Data        []byte
	ContentType string
	// Ext — расширение исходного файла, с точкой (".png").
	Ext string
}

// TokenPair is what a successful login or registration hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserID       int64
}

// AccessGrant is the result of a refresh: a fresh access token only,
// the refresh token stays as issued.
type AccessGrant struct {
	AccessToken string
	AccessTTL   time.Duration
}

// Identity is the принципал, извлечённый из access-токена. Живёт ровно
// один запрос и никогда не перечитывается из хранилища.
type Identity struct {
	UserID   int64
	Email    string
	Nickname string
}
