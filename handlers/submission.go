package handlers

import (
	"net/http"

	"nikodex/models"
	"nikodex/processing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type SubmissionRequest struct {
	Name          string `form:"name" binding:"required"`
	Description   string `form:"description"`
	FullDesc      string `form:"full_desc"`
	IsBlacklisted bool   `form:"is_blacklisted"`
}

func SubmissionList(c *gin.Context) {
	submissions, err := models.SubmissionList()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissions)
}

func SubmissionGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	submission, err := models.SubmissionByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func SubmissionImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	submission, err := models.SubmissionByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	serveImage(c, submission.Image)
}

func SubmissionCreate(c *gin.Context, user *models.User) {
	req := SubmissionRequest{}
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	var submission models.Submission
	err := withUpload(c, func(upload processing.Upload) (err error) {
		submission, err = models.SubmissionCreate(user, models.SubmissionChange{
			Name:          req.Name,
			Description:   req.Description,
			FullDesc:      req.FullDesc,
			IsBlacklisted: req.IsBlacklisted,
		}, upload)
		return
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func SubmissionDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	submission, err := models.SubmissionDelete(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func SubmissionApprove(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	niko, err := models.SubmissionApprove(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponse(&niko))
}
