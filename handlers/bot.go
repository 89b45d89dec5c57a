package handlers

import (
	"net/http"

	"nikodex/models"

	"github.com/gin-gonic/gin"
)

type SubmitUserRequest struct {
	LastSubmitOn int64  `json:"last_submit_on"`
	IsBanned     bool   `json:"is_banned"`
	BanReason    string `json:"ban_reason"`
}

func SubmitUserGet(c *gin.Context) {
	submitUser, err := models.SubmitUserByExternalID(c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitUser)
}

func SubmitUserSave(c *gin.Context) {
	req := SubmitUserRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	submitUser, err := models.SubmitUserSave(c.Query("user_id"), models.SubmitUserChange{
		LastSubmitOn: req.LastSubmitOn,
		IsBanned:     req.IsBanned,
		BanReason:    req.BanReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitUser)
}
