package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink/internal/app/controllers"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/middleware"
	"github.com/campuslink/campuslink/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	version string,
	authController *controllers.AuthController,
	communityController *controllers.CommunityController,
	postController *controllers.PostController,
	groupController *controllers.GroupController,
	userController *controllers.UserController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Versionless API prefix
	api := router.Group("/api")

	// Health check endpoint (public)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   version,
		})
	})

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/send-otp", authController.SendOTP)
		auth.POST("/verify-otp", authController.VerifyOTP)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		communities := authenticated.Group("/communities")
		{
			communities.GET("", communityController.GetCommunities)
			communities.POST("", communityController.CreateCommunity)
			communities.GET("/:id", communityController.GetCommunityByID)
			communities.POST("/:id/follow", communityController.ToggleFollow)

			// Posts live under their parent community
			communities.GET("/:id/posts", postController.GetCommunityPosts)
			communities.POST("/:id/posts", postController.CreatePost)
			communities.POST("/:id/posts/:postId/like", postController.ToggleLike)
		}

		posts := authenticated.Group("/posts")
		{
			posts.GET("/feed", postController.GetFeed)
			posts.GET("/trending", postController.GetTrending)
			posts.GET("/search", postController.Search)
			posts.GET("/:id/comments", postController.GetComments)
			posts.POST("/:id/comments", postController.CreateComment)
		}

		groups := authenticated.Group("/groups")
		{
			groups.GET("", groupController.GetGroups)
			groups.POST("", groupController.CreateGroup)
			groups.GET("/:id", groupController.GetGroupByID)
			groups.POST("/:id/join", groupController.JoinGroup)
			groups.POST("/:id/leave", groupController.LeaveGroup)
			groups.GET("/:id/messages", groupController.GetMessages)
			groups.POST("/:id/messages", groupController.SendMessage)
			groups.GET("/:id/chat/ws", wsHandler.HandleConnection)
		}

		users := authenticated.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)

			users.GET("/notifications", userController.GetNotifications)
			users.PUT("/notifications/:id/read", userController.MarkNotificationRead)
			users.PUT("/notifications/read-all", userController.MarkAllNotificationsRead)

			users.GET("/bookmarks", userController.GetBookmarks)
			users.POST("/bookmarks", userController.CreateBookmark)
			users.DELETE("/bookmarks/:id", userController.DeleteBookmark)
		}
	}
}
