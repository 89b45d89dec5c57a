package handlers

import (
	"net/http"

	"nikodex/models"

	"github.com/gin-gonic/gin"
)

type BlogRequest struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

func (r *BlogRequest) change() models.BlogChange {
	return models.BlogChange{Title: r.Title, Author: r.Author, Content: r.Content}
}

func BlogList(c *gin.Context) {
	blogs, err := models.BlogList()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func BlogGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	blog, err := models.BlogByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func BlogCreate(c *gin.Context, user *models.User) {
	req := BlogRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	blog, err := models.BlogCreate(user, req.change())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func BlogUpdate(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	req := BlogRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	blog, err := models.BlogUpdate(user, id, req.change())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func BlogDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	blog, err := models.BlogDelete(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}
