package models

import (
	"strings"
	"time"

	"nikodex/db"
	"nikodex/processing"
	"nikodex/utils"

	"gorm.io/gorm"
)

type Post struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"index;not null" json:"user_id"`
	User         *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostDatetime time.Time `gorm:"not null" json:"post_datetime"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Content      string    `gorm:"type:varchar(1023)" json:"content"`
	Image        string    `gorm:"type:varchar(1023)" json:"image"`
	Comments     []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

const (
	maxPostTitleLength   = 255
	maxPostContentLength = 1023
)

type PostChange struct {
	Title   string
	Content string
}

func postQuery(tx *gorm.DB) *gorm.DB {
	return tx.Model(&Post{}).Preload("User")
}

func PostList() (posts []Post, err error) {
	err = postQuery(db.Instance).Order("id DESC").Find(&posts).Error
	return
}

func PostPage(page utils.Pagination) (posts []Post, err error) {
	if !page.Valid() {
		return nil, invalid("page", utils.ErrBadPagination.Error())
	}
	err = postQuery(db.Instance).Order("id DESC").Offset(page.Offset()).Limit(page.Count).Find(&posts).Error
	return
}

func PostCount() (count int64, err error) {
	err = db.Instance.Model(&Post{}).Count(&count).Error
	return
}

func PostByID(id uint64) (p Post, err error) {
	return p, first(postQuery(db.Instance), &p, "posts.id = ?", id)
}

func PostsByUser(userID uint64) (posts []Post, err error) {
	err = postQuery(db.Instance).Where("user_id = ?", userID).Order("id DESC").Find(&posts).Error
	return
}

// PostCreate stores the image first and the row second, the image is removed again if the insert fails
func PostCreate(actor *User, req PostChange, upload processing.Upload) (p Post, err error) {
	if actor == nil || actor.ID == 0 {
		return p, forbidden(ReasonUnknownUser)
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return p, invalid("title", "is required")
	}
	if len(req.Title) > maxPostTitleLength {
		return p, invalid("title", "is too long")
	}
	if len(req.Content) > maxPostContentLength {
		return p, invalid("content", "is too long")
	}
	name := processing.NewImageName()
	if err = processing.Store(name, upload); err != nil {
		return
	}
	p = Post{
		UserID:       actor.ID,
		PostDatetime: nowFunc().UTC(),
		Title:        req.Title,
		Content:      req.Content,
		Image:        name,
	}
	if err = db.Instance.Create(&p).Error; err != nil {
		_ = processing.Remove(name)
		return Post{}, err
	}
	return PostByID(p.ID)
}

// PostDelete removes the post, its comments and its image. Only the author or an admin may do it.
func PostDelete(actor *User, id uint64) (p Post, err error) {
	if p, err = PostByID(id); err != nil {
		return
	}
	if err = CanMutate(actor, &p.UserID).Err(); err != nil {
		return
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Post{}, id).Error
	})
	if err != nil {
		return
	}
	return p, processing.Remove(p.Image)
}
