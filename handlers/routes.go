package handlers

import (
	"nikodex/auth"
	"nikodex/models"
	"nikodex/utils"

	"github.com/gin-gonic/gin"
)

// Routes registers every endpoint on router
func Routes(router *gin.Engine) {
	// No cache by default, image end-points override that
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler())
	// Custom Auth Router
	authRouter := &auth.Router{Base: router}

	router.GET("/healthz", Healthz)
	router.GET("/readyz", Readyz)
	router.POST("/token", UserLogin)

	// Nikos
	router.GET("/nikos", NikoList)
	router.GET("/nikos/page", NikoPage)
	router.GET("/nikos/count", NikoCount)
	router.GET("/nikos/random", NikoRandom)
	router.GET("/nikos/notd", NikoOfTheDay)
	router.GET("/nikos/search", NikoSearch)
	router.GET("/nikos/:id", NikoGet)
	router.GET("/nikos/:id/image", NikoImage)
	authRouter.POST("/nikos", NikoCreate, models.PermissionAdmin)
	// Owner or admin, checked in models
	authRouter.PUT("/nikos/:id", NikoUpdate)
	authRouter.DELETE("/nikos/:id", NikoDelete)
	authRouter.POST("/nikos/:id/image", NikoSetImage)
	authRouter.DELETE("/nikos/:id/image", NikoDeleteImage)
	// Abilities, ownership of the parent niko applies
	router.GET("/abilities", AbilityList)
	router.GET("/abilities/:id", AbilityGet)
	authRouter.POST("/abilities", AbilityCreate)
	authRouter.PUT("/abilities/:id", AbilityUpdate)
	authRouter.DELETE("/abilities/:id", AbilityDelete)
	// Users
	router.POST("/users", UserCreate)
	router.GET("/users/count", UserCount)
	router.GET("/users/search", UserSearch)
	router.GET("/users/name/:username", UserGetByName)
	authRouter.GET("/users/me", UserMe)
	authRouter.PUT("/users/me", UserUpdateMe)
	router.GET("/users/:id", UserGet)
	authRouter.DELETE("/users/:id", UserDelete) // Self or admin
	router.GET("/users/:id/nikos", UserNikos)
	router.GET("/users/:id/nikos/latest", UserLatestNiko)
	router.GET("/users/:id/posts", UserPosts)
	router.GET("/users/:id/comments", UserComments)
	router.GET("/users/:id/submissions", UserSubmissions)
	router.GET("/users/:id/profile_picture", UserProfilePicture)
	// Self or admin
	authRouter.PUT("/users/:id/profile_picture", UserSetProfilePicture)
	authRouter.DELETE("/users/:id/profile_picture", UserDeleteProfilePicture)
	// Posts
	router.GET("/posts", PostList)
	router.GET("/posts/page", PostPage)
	router.GET("/posts/count", PostCount)
	router.GET("/posts/:id", PostGet)
	router.GET("/posts/:id/image", PostImage)
	router.GET("/posts/:id/comments", PostComments)
	authRouter.POST("/posts", PostCreate)
	authRouter.DELETE("/posts/:id", PostDelete) // Author or admin
	// Comments
	authRouter.POST("/comments", CommentCreate)
	authRouter.DELETE("/comments/:id", CommentDelete) // Author or admin
	// Submissions
	router.GET("/submissions", SubmissionList)
	router.GET("/submissions/:id", SubmissionGet)
	router.GET("/submissions/:id/image", SubmissionImage)
	authRouter.POST("/submissions", SubmissionCreate)
	authRouter.DELETE("/submissions/:id", SubmissionDelete, models.PermissionAdmin)
	authRouter.POST("/submissions/:id/approve", SubmissionApprove, models.PermissionAdmin)
	// Blogs
	router.GET("/blogs", BlogList)
	router.GET("/blogs/:id", BlogGet)
	authRouter.POST("/blogs", BlogCreate, models.PermissionAdmin)
	authRouter.PUT("/blogs/:id", BlogUpdate, models.PermissionAdmin)
	authRouter.DELETE("/blogs/:id", BlogDelete, models.PermissionAdmin)
	// Banner
	router.GET("/banner", BannerGet)
	authRouter.POST("/banner", BannerSet, models.PermissionAdmin)

	// Bot integration, shared secret instead of user tokens
	bot := router.Group("/discord_bot", auth.BotSecret())
	bot.GET("/submit_user", SubmitUserGet)
	bot.POST("/submit_user", SubmitUserSave)
}
