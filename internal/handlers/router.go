package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisakawa/tsunagari/internal/services"
)

// maxBodyBytes bounds request bodies; posts carry inline data-URL images.
const maxBodyBytes = 10 << 20

// RouterConfig carries the services the router wires handlers to, plus any
// extra middleware (request metrics) applied to every route.
type RouterConfig struct {
	AuthService         services.AuthServiceInterface
	UserService         services.UserServiceInterface
	RelationshipService services.RelationshipServiceInterface
	PostService         services.PostServiceInterface
	CommentService      services.CommentServiceInterface
	GroupService        services.GroupServiceInterface
	Middleware          []gin.HandlerFunc
}

// NewRouter builds the HTTP surface. Mutating routes require a bearer
// token; profile, feed and group reads are public.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(limitBody)
	for _, mw := range cfg.Middleware {
		router.Use(mw)
	}

	authHandler := NewAuthHandler(cfg.AuthService)
	userHandler := NewUserHandler(cfg.UserService, cfg.RelationshipService)
	postHandler := NewPostHandler(cfg.PostService)
	commentHandler := NewCommentHandler(cfg.CommentService)
	groupHandler := NewGroupHandler(cfg.GroupService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/users/:id", userHandler.GetProfile)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Get)
	api.GET("/posts/:id/comments", commentHandler.ListByPost)
	api.GET("/groups", groupHandler.List)
	api.GET("/groups/:id", groupHandler.Get)

	authed := api.Group("", RequireAuth(cfg.AuthService))

	authed.PUT("/users/:id", userHandler.UpdateProfile)
	authed.POST("/users/:id/follow", userHandler.Follow)
	authed.POST("/users/:id/unfollow", userHandler.Unfollow)
	authed.POST("/users/:id/friend-request", userHandler.SendFriendRequest)
	authed.POST("/users/:id/friend-accept", userHandler.AcceptFriendRequest)
	authed.POST("/users/:id/friend-remove", userHandler.RemoveFriend)

	authed.POST("/posts", postHandler.Create)
	authed.DELETE("/posts/:id", postHandler.Delete)
	authed.POST("/posts/:id/like", postHandler.Like)
	authed.POST("/posts/:id/unlike", postHandler.Unlike)

	authed.POST("/comments", commentHandler.Create)
	authed.DELETE("/comments/:id", commentHandler.Delete)
	authed.POST("/comments/:id/like", commentHandler.Like)

	authed.POST("/groups", groupHandler.Create)
	authed.POST("/groups/:id/join", groupHandler.Join)
	authed.POST("/groups/:id/leave", groupHandler.Leave)

	return router
}

func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	c.Next()
}
