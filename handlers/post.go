package handlers

import (
	"net/http"

	"nikodex/models"
	"nikodex/processing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type PostRequest struct {
	Title   string `form:"title" binding:"required"`
	Content string `form:"content"`
}

func PostList(c *gin.Context) {
	posts, err := models.PostList()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postResponses(posts))
}

func PostPage(c *gin.Context) {
	page, ok := pagination(c)
	if !ok {
		return
	}
	posts, err := models.PostPage(page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postResponses(posts))
}

func PostCount(c *gin.Context) {
	count, err := models.PostCount()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

func PostGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	post, err := models.PostByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postResponse(&post))
}

func PostImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	post, err := models.PostByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	serveImage(c, post.Image)
}

func PostComments(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	comments, err := models.CommentsByPost(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentResponses(comments))
}

func PostCreate(c *gin.Context, user *models.User) {
	req := PostRequest{}
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	var post models.Post
	err := withUpload(c, func(upload processing.Upload) (err error) {
		post, err = models.PostCreate(user, models.PostChange{Title: req.Title, Content: req.Content}, upload)
		return
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postResponse(&post))
}

func PostDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	post, err := models.PostDelete(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postResponse(&post))
}
