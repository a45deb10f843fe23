package handler

import (
	"net/http"
	"time"

	"github.com/BloggingApp/blog-service/internal/metrics"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionName = "blog_session"

type Options struct {
	ClientOrigin  string
	FrontendURL   string
	SessionSecret string
	Metrics       metrics.Recorder
}

type Handler struct {
	logger   *zap.Logger
	services *service.Service
	opts     Options
}

func New(logger *zap.Logger, services *service.Service, opts Options) *Handler {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}

	return &Handler{
		logger:   logger,
		services: services,
		opts:     opts,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.accessLogMiddleware)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.opts.ClientOrigin},
		AllowMethods:     []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	store := cookie.NewStore([]byte(h.opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(h.authMiddleware)

	r.POST("/", h.authRegister)
	r.POST("/login", h.authLogin)
	r.GET("/google", h.authGoogle)
	r.GET("/google/callback", h.authGoogleCallback)
	r.GET("/me", h.authMe)

	authors := r.Group("/authors")
	{
		authors.GET("", h.authorsGetAll)
		authors.POST("", h.authRegister)

		author := authors.Group("/:id")
		{
			author.GET("", h.authorsGetByID)
			author.PUT("", h.authorsUpdate)
			author.DELETE("", h.authorsDelete)
			author.PATCH("/avatar", h.authorsUploadAvatar)
		}
	}

	posts := r.Group("/blogPosts")
	{
		posts.GET("", h.postsGetAll)
		posts.POST("", h.postsCreate)
		posts.GET("/authors/:id/blogPosts", h.postsGetByAuthor)

		post := posts.Group("/:id")
		{
			post.GET("", h.postsGetByID)
			post.PUT("", h.postsUpdate)
			post.DELETE("", h.postsDelete)

			comments := post.Group("/comments")
			{
				comments.GET("", h.commentsGetAll)
				comments.POST("", h.commentsCreate)
				comments.GET("/:commentId", h.commentsGetByID)
				comments.PUT("/:commentId", h.commentsUpdate)
				comments.DELETE("/:commentId", h.commentsDelete)
			}
		}
	}

	return r
}

func (h *Handler) accessLogMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	latency := time.Since(start)

	h.opts.Metrics.RecordRequest(c.Request.Method, route, status, latency)
	h.logger.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("ip", c.ClientIP()),
	)
}

func (h *Handler) getSubjectFromRequest(c *gin.Context) *model.Subject {
	subjectReq, _ := c.Get(userKey)

	subject, ok := subjectReq.(model.Subject)
	if !ok {
		return nil
	}

	return &subject
}
