package handlers

import (
	"net/http"
	"time"

	"nikodex/models"
	"nikodex/processing"

	"github.com/gin-gonic/gin"
)

type NikoRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	FullDesc      string `json:"full_desc"`
	Author        string `json:"author"`
	IsBlacklisted bool   `json:"is_blacklisted"`
	AuthorID      *int64 `json:"author_id"`
}

func (r *NikoRequest) change() models.NikoChange {
	return models.NikoChange{
		Name:          r.Name,
		Description:   r.Description,
		FullDesc:      r.FullDesc,
		Author:        r.Author,
		IsBlacklisted: r.IsBlacklisted,
		AuthorID:      r.AuthorID,
	}
}

func sortType(c *gin.Context) (models.SortType, bool) {
	sort, err := models.ParseSortType(c.Query("sort_by"))
	if err != nil {
		respondError(c, err)
		return sort, false
	}
	return sort, true
}

func NikoList(c *gin.Context) {
	sort, ok := sortType(c)
	if !ok {
		return
	}
	nikos, err := models.NikoList(sort)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponses(nikos))
}

func NikoPage(c *gin.Context) {
	sort, ok := sortType(c)
	if !ok {
		return
	}
	page, ok := pagination(c)
	if !ok {
		return
	}
	nikos, err := models.NikoPage(page, sort)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponses(nikos))
}

func NikoCount(c *gin.Context) {
	count, err := models.NikoCount()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

func NikoRandom(c *gin.Context) {
	niko, err := models.NikoRandom()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponse(&niko))
}

// NikoOfTheDay returns the daily pick, X-RefreshAt says when it changes
func NikoOfTheDay(c *gin.Context) {
	niko, refresh, err := models.DailyPickCurrent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header(refreshHeader, refresh.UTC().Format(time.RFC3339))
	c.JSON(http.StatusOK, nikoResponse(&niko))
}

func NikoSearch(c *gin.Context) {
	nikos, err := models.NikoSearch(c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponses(nikos))
}

func NikoGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	niko, err := models.NikoByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponse(&niko))
}

func NikoCreate(c *gin.Context, user *models.User) {
	req := NikoRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	niko, err := models.NikoCreate(user, req.change())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponse(&niko))
}

func NikoUpdate(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	req := NikoRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	niko, err := models.NikoUpdate(user, id, req.change())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponse(&niko))
}

func NikoDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	niko, err := models.NikoDelete(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponse(&niko))
}

func NikoImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	niko, err := models.NikoByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	serveImage(c, niko.ImagePath())
}

func NikoSetImage(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	err := withUpload(c, func(upload processing.Upload) error {
		return models.NikoSetImage(user, id, upload)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{"Updated image."})
}

func NikoDeleteImage(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := models.NikoDeleteImage(user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{"Deleted image."})
}
