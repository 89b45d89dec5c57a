package models

import (
	"nikodex/db"

	"gorm.io/gorm/clause"
)

// SubmitUser is kept by the bot to rate limit and ban submitters on its side
type SubmitUser struct {
	ID           uint64 `gorm:"primaryKey" json:"id"`
	UserID       string `gorm:"type:varchar(255);index:uniq_submit_user,unique;not null" json:"user_id"`
	LastSubmitOn int64  `gorm:"not null" json:"last_submit_on"`
	IsBanned     bool   `gorm:"not null;default:false" json:"is_banned"`
	BanReason    string `gorm:"type:varchar(1023)" json:"ban_reason"`
}

type SubmitUserChange struct {
	LastSubmitOn int64
	IsBanned     bool
	BanReason    string
}

func SubmitUserByExternalID(userID string) (s SubmitUser, err error) {
	return s, first(db.Instance, &s, "user_id = ?", userID)
}

// SubmitUserSave creates or overwrites the ledger row of userID
func SubmitUserSave(userID string, req SubmitUserChange) (s SubmitUser, err error) {
	if userID == "" {
		return s, invalid("user_id", "is required")
	}
	if len(req.BanReason) > 1023 {
		return s, invalid("ban_reason", "is too long")
	}
	s = SubmitUser{
		UserID:       userID,
		LastSubmitOn: req.LastSubmitOn,
		IsBanned:     req.IsBanned,
		BanReason:    req.BanReason,
	}
	err = db.Instance.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_submit_on", "is_banned", "ban_reason"}),
	}).Create(&s).Error
	if err != nil {
		return
	}
	return SubmitUserByExternalID(userID)
}
