package handlers

import (
	"net/http"

	"nikodex/models"

	"github.com/gin-gonic/gin"
)

type CommentRequest struct {
	PostID  uint64 `json:"post_id" binding:"required"`
	Content string `json:"content"`
}

func CommentCreate(c *gin.Context, user *models.User) {
	req := CommentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	comment, err := models.CommentCreate(user, models.CommentChange{PostID: req.PostID, Content: req.Content})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentResponse(&comment))
}

func CommentDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	comment, err := models.CommentDelete(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentResponse(&comment))
}
