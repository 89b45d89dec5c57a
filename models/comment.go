package models

import (
	"strings"
	"time"

	"nikodex/config"
	"nikodex/db"

	"gorm.io/gorm"
)

type Comment struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	AuthorID uint64    `gorm:"index;not null" json:"author_id"`
	User     *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID   uint64    `gorm:"index;not null" json:"post_id"`
	Post     *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content  string    `gorm:"type:varchar(1024);not null" json:"content"`
	PostDate time.Time `gorm:"not null" json:"post_date"`
}

const maxCommentLength = 300

type CommentChange struct {
	PostID  uint64
	Content string
}

func commentQuery(tx *gorm.DB) *gorm.DB {
	return tx.Model(&Comment{}).Preload("User").Order("id DESC")
}

func CommentsByPost(postID uint64) (comments []Comment, err error) {
	err = commentQuery(db.Instance).Where("post_id = ?", postID).Find(&comments).Error
	return
}

func CommentsByUser(userID uint64) (comments []Comment, err error) {
	err = commentQuery(db.Instance).Where("author_id = ?", userID).Find(&comments).Error
	return
}

func CommentByID(id uint64) (c Comment, err error) {
	return c, first(db.Instance.Preload("User"), &c, "id = ?", id)
}

// commentCooldownLeft is zero when the user may comment right now
func commentCooldownLeft(u *User, now time.Time) time.Duration {
	if u.IsAdmin || u.LastCommentAt == nil {
		return 0
	}
	left := u.LastCommentAt.Add(config.CommentCooldown()).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// CommentCreate posts a comment, non admins are limited to one per COMMENT_RATE_LIMIT minutes
func CommentCreate(actor *User, req CommentChange) (c Comment, err error) {
	if actor == nil || actor.ID == 0 {
		return c, forbidden(ReasonUnknownUser)
	}
	var author User
	if err = first(db.Instance, &author, "id = ?", actor.ID); err != nil {
		return
	}
	var postCount int64
	if err = db.Instance.Model(&Post{}).Where("id = ?", req.PostID).Count(&postCount).Error; err != nil {
		return
	}
	if postCount == 0 {
		return c, ErrNotFound
	}
	now := nowFunc().UTC()
	if left := commentCooldownLeft(&author, now); left > 0 {
		return c, &RateLimitError{Remaining: left}
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c, invalid("content", "is required")
	}
	if len(req.Content) > maxCommentLength {
		return c, invalid("content", "Comment too long.")
	}
	c = Comment{
		AuthorID: author.ID,
		PostID:   req.PostID,
		Content:  req.Content,
		PostDate: now,
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		return tx.Model(&User{}).Where("id = ?", author.ID).Update("last_comment_at", now).Error
	})
	if err != nil {
		return Comment{}, err
	}
	c.User = &author
	return c, nil
}

// CommentDelete is allowed to the comment author and admins
func CommentDelete(actor *User, id uint64) (c Comment, err error) {
	if c, err = CommentByID(id); err != nil {
		return
	}
	if err = CanMutate(actor, &c.AuthorID).Err(); err != nil {
		return
	}
	err = db.Instance.Delete(&Comment{}, id).Error
	return
}
