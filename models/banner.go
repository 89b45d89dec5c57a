package models

import (
	"errors"

	"nikodex/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Banner is a single row table, the check constraint pins its id to 1
type Banner struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement:false;default:1;check:one_row_only,id = 1" json:"id"`
	Title            string `gorm:"type:varchar(120)" json:"title"`
	Content          string `gorm:"type:varchar(500)" json:"content"`
	BannerColor      string `gorm:"type:varchar(32)" json:"banner_color"`
	IsDismissable    bool   `gorm:"not null" json:"is_dismissable"`
	BannerIdentifier string `gorm:"type:varchar(100)" json:"banner_identifier"`
}

func (Banner) TableName() string {
	return "banner"
}

const bannerID = 1

type BannerChange struct {
	Title         string
	Content       string
	BannerColor   string
	IsDismissable bool
}

func DefaultBanner() Banner {
	return Banner{ID: bannerID, IsDismissable: true, BannerIdentifier: "0"}
}

func BannerGet() (b Banner, err error) {
	err = db.Instance.Take(&b, bannerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultBanner(), nil
	}
	return
}

// BannerSet overwrites the banner. Every change gets a new identifier so clients show it again.
func BannerSet(actor *User, req BannerChange) (b Banner, err error) {
	if err = RequireAdmin(actor); err != nil {
		return
	}
	if len(req.Title) > 120 {
		return b, invalid("title", "is too long")
	}
	if len(req.Content) > 500 {
		return b, invalid("content", "is too long")
	}
	if len(req.BannerColor) > 32 {
		return b, invalid("banner_color", "is too long")
	}
	b = Banner{
		ID:               bannerID,
		Title:            req.Title,
		Content:          req.Content,
		BannerColor:      req.BannerColor,
		IsDismissable:    req.IsDismissable,
		BannerIdentifier: uuid.NewString(),
	}
	err = db.Instance.Clauses(clause.OnConflict{UpdateAll: true}).Create(&b).Error
	return
}
