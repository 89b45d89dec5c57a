package handlers

import (
	"net/http"

	"nikodex/models"

	"github.com/gin-gonic/gin"
)

type BannerRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	BannerColor   string `json:"banner_color"`
	IsDismissable bool   `json:"is_dismissable"`
}

func BannerGet(c *gin.Context) {
	banner, err := models.BannerGet()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}

func BannerSet(c *gin.Context, user *models.User) {
	req := BannerRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	banner, err := models.BannerSet(user, models.BannerChange{
		Title:         req.Title,
		Content:       req.Content,
		BannerColor:   req.BannerColor,
		IsDismissable: req.IsDismissable,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}
