package models

import (
	"strings"
	"time"

	"nikodex/db"
)

type Blog struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Author       string    `gorm:"type:varchar(255)" json:"author"`
	Content      string    `gorm:"type:text" json:"content"`
	PostDatetime time.Time `gorm:"not null" json:"post_datetime"`
}

const maxBlogFieldLength = 255

type BlogChange struct {
	Title   string
	Author  string
	Content string
}

func BlogList() (blogs []Blog, err error) {
	err = db.Instance.Order("post_datetime DESC").Order("id DESC").Find(&blogs).Error
	return
}

func BlogByID(id uint64) (b Blog, err error) {
	return b, first(db.Instance, &b, "id = ?", id)
}

func (req *BlogChange) validate(create bool) error {
	req.Title = strings.TrimSpace(req.Title)
	if create && req.Title == "" {
		return invalid("title", "is required")
	}
	if create && req.Content == "" {
		return invalid("content", "is required")
	}
	if len(req.Title) > maxBlogFieldLength {
		return invalid("title", "is too long")
	}
	if len(req.Author) > maxBlogFieldLength {
		return invalid("author", "is too long")
	}
	return nil
}

func BlogCreate(actor *User, req BlogChange) (b Blog, err error) {
	if err = RequireAdmin(actor); err != nil {
		return
	}
	if err = req.validate(true); err != nil {
		return
	}
	b = Blog{
		Title:        req.Title,
		Author:       req.Author,
		Content:      req.Content,
		PostDatetime: nowFunc().UTC(),
	}
	err = db.Instance.Create(&b).Error
	return
}

func BlogUpdate(actor *User, id uint64, req BlogChange) (b Blog, err error) {
	if err = RequireAdmin(actor); err != nil {
		return
	}
	if err = req.validate(false); err != nil {
		return
	}
	if b, err = BlogByID(id); err != nil {
		return
	}
	updates := map[string]any{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Author != "" {
		updates["author"] = req.Author
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if len(updates) == 0 {
		return
	}
	if err = db.Instance.Model(&b).Updates(updates).Error; err != nil {
		return
	}
	return BlogByID(id)
}

func BlogDelete(actor *User, id uint64) (b Blog, err error) {
	if err = RequireAdmin(actor); err != nil {
		return
	}
	if b, err = BlogByID(id); err != nil {
		return
	}
	err = db.Instance.Delete(&Blog{}, id).Error
	return
}
