package handlers

import (
	"time"

	"nikodex/models"
)

type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type UserProfile struct {
	ID                uint64 `json:"id"`
	Username          string `json:"username"`
	Description       string `json:"description"`
	IsAdmin           bool   `json:"is_admin"`
	HasProfilePicture bool   `json:"has_profile_picture"`
}

type NikoResponse struct {
	ID            uint64           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	FullDesc      string           `json:"full_desc"`
	IsBlacklisted bool             `json:"is_blacklisted"`
	AuthorID      *uint64          `json:"author_id"`
	AuthorName    string           `json:"author_name"`
	User          *UserInfo        `json:"user"`
	Abilities     []models.Ability `json:"abilities"`
}

type PostResponse struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	User         *UserInfo `json:"user"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Image        string    `json:"image"`
	PostDatetime time.Time `json:"post_datetime"`
}

type CommentResponse struct {
	ID       uint64    `json:"id"`
	PostID   uint64    `json:"post_id"`
	AuthorID uint64    `json:"author_id"`
	User     *UserInfo `json:"user"`
	Content  string    `json:"content"`
	PostDate time.Time `json:"post_date"`
}

func userInfo(u *models.User) *UserInfo {
	if u == nil {
		return nil
	}
	return &UserInfo{ID: u.ID, Username: u.Username}
}

func userProfile(u *models.User) UserProfile {
	return UserProfile{
		ID:                u.ID,
		Username:          u.Username,
		Description:       u.Description,
		IsAdmin:           u.IsAdmin,
		HasProfilePicture: u.ProfilePicture != nil,
	}
}

func nikoResponse(n *models.Niko) NikoResponse {
	abilities := n.Abilities
	if abilities == nil {
		abilities = []models.Ability{}
	}
	return NikoResponse{
		ID:            n.ID,
		Name:          n.Name,
		Description:   n.Description,
		FullDesc:      n.FullDesc,
		IsBlacklisted: n.IsBlacklisted,
		AuthorID:      n.AuthorID,
		AuthorName:    n.AuthorName(),
		User:          userInfo(n.User),
		Abilities:     abilities,
	}
}

func nikoResponses(nikos []models.Niko) []NikoResponse {
	result := make([]NikoResponse, 0, len(nikos))
	for i := range nikos {
		result = append(result, nikoResponse(&nikos[i]))
	}
	return result
}

func postResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		User:         userInfo(p.User),
		Title:        p.Title,
		Content:      p.Content,
		Image:        p.Image,
		PostDatetime: p.PostDatetime,
	}
}

func postResponses(posts []models.Post) []PostResponse {
	result := make([]PostResponse, 0, len(posts))
	for i := range posts {
		result = append(result, postResponse(&posts[i]))
	}
	return result
}

func commentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:       c.ID,
		PostID:   c.PostID,
		AuthorID: c.AuthorID,
		User:     userInfo(c.User),
		Content:  c.Content,
		PostDate: c.PostDate,
	}
}

func commentResponses(comments []models.Comment) []CommentResponse {
	result := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, commentResponse(&comments[i]))
	}
	return result
}

func userProfiles(users []models.User) []UserProfile {
	result := make([]UserProfile, 0, len(users))
	for i := range users {
		result = append(result, userProfile(&users[i]))
	}
	return result
}
