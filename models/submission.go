package models

import (
	"bytes"
	"strings"
	"time"

	"nikodex/db"
	"nikodex/processing"
	"nikodex/storage"

	"gorm.io/gorm"
)

type Submission struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	UserID        uint64    `gorm:"index;not null" json:"user_id"`
	User          *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SubmitDate    time.Time `gorm:"index;not null" json:"submit_date"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Description   string    `gorm:"type:varchar(255)" json:"description"`
	FullDesc      string    `gorm:"type:varchar(1023)" json:"full_desc"`
	Image         string    `gorm:"type:varchar(1023)" json:"image"`
	IsBlacklisted bool      `gorm:"not null;default:false" json:"is_blacklisted"`
}

type SubmissionChange struct {
	Name          string
	Description   string
	FullDesc      string
	IsBlacklisted bool
}

func SubmissionList() (submissions []Submission, err error) {
	err = db.Instance.Order("submit_date DESC").Order("id DESC").Find(&submissions).Error
	return
}

func SubmissionByID(id uint64) (s Submission, err error) {
	return s, first(db.Instance, &s, "id = ?", id)
}

func SubmissionsByUser(userID uint64) (submissions []Submission, err error) {
	err = db.Instance.Where("user_id = ?", userID).Order("id").Find(&submissions).Error
	return
}

func (req *SubmissionChange) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return invalid("name", "is required")
	}
	if len(req.Name) > maxNikoNameLength {
		return invalid("name", "is too long")
	}
	if len(req.Description) > maxDescriptionLength {
		return invalid("description", "is too long")
	}
	if len(req.FullDesc) > maxNikoFullDescLength {
		return invalid("full_desc", "is too long")
	}
	return nil
}

func SubmissionCreate(actor *User, req SubmissionChange, upload processing.Upload) (s Submission, err error) {
	if actor == nil || actor.ID == 0 {
		return s, forbidden(ReasonUnknownUser)
	}
	if err = req.validate(); err != nil {
		return
	}
	name := processing.NewImageName()
	if err = processing.Store(name, upload); err != nil {
		return
	}
	s = Submission{
		UserID:        actor.ID,
		SubmitDate:    nowFunc().UTC(),
		Name:          req.Name,
		Description:   req.Description,
		FullDesc:      req.FullDesc,
		Image:         name,
		IsBlacklisted: req.IsBlacklisted,
	}
	if err = db.Instance.Create(&s).Error; err != nil {
		_ = processing.Remove(name)
		return Submission{}, err
	}
	return s, nil
}

// SubmissionDelete rejects a submission, admins only
func SubmissionDelete(actor *User, id uint64) (s Submission, err error) {
	if err = RequireAdmin(actor); err != nil {
		return
	}
	if s, err = SubmissionByID(id); err != nil {
		return
	}
	if err = db.Instance.Delete(&Submission{}, id).Error; err != nil {
		return
	}
	return s, processing.Remove(s.Image)
}

// SubmissionApprove turns the submission into a niko owned by the submitter and moves its image over
func SubmissionApprove(actor *User, id uint64) (n Niko, err error) {
	if err = RequireAdmin(actor); err != nil {
		return
	}
	s, err := SubmissionByID(id)
	if err != nil {
		return
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		n = Niko{
			Name:          s.Name,
			Description:   s.Description,
			FullDesc:      s.FullDesc,
			IsBlacklisted: s.IsBlacklisted,
			AuthorID:      &s.UserID,
		}
		if err := tx.Create(&n).Error; err != nil {
			return err
		}
		return tx.Delete(&Submission{}, s.ID).Error
	})
	if err != nil {
		return
	}
	if s.Image != "" && storage.Default.Exists(s.Image) {
		var buf bytes.Buffer
		if _, err = storage.Default.Load(s.Image, &buf); err != nil {
			return
		}
		if _, err = storage.Default.Save(n.ImagePath(), &buf); err != nil {
			return
		}
	}
	if err = processing.Remove(s.Image); err != nil {
		return
	}
	return NikoByID(n.ID)
}
