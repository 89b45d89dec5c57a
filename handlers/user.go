package handlers

import (
	"net/http"

	"nikodex/auth"
	"nikodex/models"
	"nikodex/processing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserLoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserChangeRequest struct {
	NewUsername    string `json:"new_username"`
	NewPassword    string `json:"new_password"`
	NewDescription string `json:"new_description"`
}

func (r *UserChangeRequest) change() models.UserChange {
	return models.UserChange{
		Username:    r.NewUsername,
		Password:    r.NewPassword,
		Description: r.NewDescription,
	}
}

func UserLogin(c *gin.Context) {
	req := UserLoginRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, ok := models.UserLogin(req.Username, req.Password)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, Response{"Incorrect username or password"})
		return
	}
	token, _, err := auth.NewToken(&user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: auth.TokenType})
}

func UserCreate(c *gin.Context) {
	req := UserChangeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, err := models.UserCreate(req.change())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userProfile(&user))
}

func UserCount(c *gin.Context) {
	count, err := models.UserCount()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

func UserSearch(c *gin.Context) {
	page, ok := pagination(c)
	if !ok {
		return
	}
	users, err := models.UserSearch(c.Query("username"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userProfiles(users))
}

func UserGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, err := models.UserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userProfile(&user))
}

func UserGetByName(c *gin.Context) {
	user, err := models.UserByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userProfile(&user))
}

func UserMe(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, userProfile(user))
}

func UserUpdateMe(c *gin.Context, user *models.User) {
	req := UserChangeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := user.Update(req.change()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userProfile(user))
}

func UserDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := models.UserDelete(user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{"Deleted user."})
}

func UserNikos(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	nikos, err := models.NikosByUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoResponses(nikos))
}

func UserLatestNiko(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	nikoID, err := models.NikoLatestIDOfUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nikoID)
}

func UserPosts(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	posts, err := models.PostsByUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postResponses(posts))
}

func UserComments(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	comments, err := models.CommentsByUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentResponses(comments))
}

func UserSubmissions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	submissions, err := models.SubmissionsByUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissions)
}

func UserProfilePicture(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, err := models.UserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	serveImage(c, user.ProfilePicturePath())
}

func UserSetProfilePicture(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	err := withUpload(c, func(upload processing.Upload) error {
		return models.SetProfilePicture(user, id, upload)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{"Updated profile picture."})
}

func UserDeleteProfilePicture(c *gin.Context, user *models.User) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := models.DeleteProfilePicture(user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{"Deleted profile picture."})
}
