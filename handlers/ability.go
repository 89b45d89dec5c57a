package handlers

import (
	"net/http"

	"nikodex/models"

	"github.com/gin-gonic/gin"
)

type AbilityRequest struct {
	Name   string `json:"name"`
	NikoID uint64 `json:"niko_id"`
}

func AbilityList(c *gin.Context) {
	abilities, err := models.AbilityList()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, abilities)
}

func AbilityGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ability, err := models.AbilityByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ability)
}

func AbilityCreate(c *gin.Context, user *models.User) {
	req := AbilityRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	ability, err := models.AbilityCreate(user, models.AbilityChange{Name: req.Name, NikoID: req.NikoID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ability)
}

func AbilityUpdate(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	req := AbilityRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	ability, err := models.AbilityUpdate(user, id, models.AbilityChange{Name: req.Name, NikoID: req.NikoID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ability)
}

func AbilityDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ability, err := models.AbilityDelete(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ability)
}
