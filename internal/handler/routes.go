package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"chat-gateway-go/internal/model"
)

// Handlers groups every route handler for injection.
type Handlers struct {
	fx.In

	Health     *HealthHandler
	Channels   *ChannelHandler
	Users      *UserHandler
	Messages   *MessageHandler
	Threads    *ThreadHandler
	Moderation *ModerationHandler
	Presence   *PresenceHandler
	Search     *SearchHandler
	Files      *FileHandler
	Chatbots   *ChatbotHandler
}

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/", h.Health.Root)
	e.GET("/healthz", h.Health.Healthz)
	e.GET("/gateway/status", h.Health.Status)

	api := e.Group("/api/v1")

	ch := api.Group("/channels")
	ch.POST("", h.Channels.Create)
	ch.GET("", h.Channels.List)
	ch.POST("/members", h.Channels.AddMember)
	ch.DELETE("/members", h.Channels.RemoveMember)
	ch.GET("/members/:user_id", h.Channels.ChannelsForUser)
	ch.GET("/members/owner/:owner_id", h.Channels.ChannelsForOwner)
	ch.GET("/members/channel/:channel_id", h.Channels.Members)
	ch.GET("/:channel_id", h.Channels.Get)
	ch.PUT("/:channel_id", h.Channels.Update)
	ch.DELETE("/:channel_id", h.Channels.Deactivate)
	ch.POST("/:channel_id/reactivate", h.Channels.Reactivate)
	ch.GET("/:channel_id/basic", h.Channels.BasicInfo)

	users := api.Group("/users")
	users.POST("/register", h.Users.Register)
	users.POST("/login", h.Users.Login)
	users.GET("/me", h.Users.Me)
	users.PATCH("/me", h.Users.UpdateMe)

	msgs := api.Group("/messages/threads/:thread_id/messages")
	msgs.POST("", h.Messages.Create)
	msgs.GET("", h.Messages.List)
	msgs.PUT("/:message_id", h.Messages.Update)
	msgs.DELETE("/:message_id", h.Messages.Delete)

	threads := api.Group("/threads")
	threads.POST("", h.Threads.Create)
	threads.GET("", h.Threads.List)
	threads.GET("/:thread_id", h.Threads.Get)
	threads.PATCH("/:thread_id", h.Threads.Update)
	threads.DELETE("/:thread_id", h.Threads.Delete)
	threads.POST("/:thread_id/archive", h.Threads.Archive)

	mod := api.Group("/moderation")
	mod.POST("/check", h.Moderation.Check)
	mod.POST("/analyze", h.Moderation.Analyze)
	mod.GET("/status/:user_id/:channel_id", h.Moderation.Status)
	mod.POST("/words", h.Moderation.AddWord)
	mod.GET("/words", h.Moderation.ListWords)
	mod.DELETE("/words/:word_id", h.Moderation.DeleteWord)
	mod.GET("/stats", h.Moderation.BlacklistStats)
	mod.POST("/refresh-cache", h.Moderation.RefreshCache)
	mod.GET("/banned-users", h.Moderation.BannedUsers)
	mod.GET("/users/:user_id/violations", h.Moderation.UserViolations)
	mod.PUT("/users/:user_id/unban", h.Moderation.Unban)
	mod.GET("/users/:user_id/status", h.Moderation.UserStatus)
	mod.POST("/users/:user_id/reset-strikes", h.Moderation.ResetStrikes)
	mod.GET("/channels/:channel_id/stats", h.Moderation.ChannelStats)
	mod.POST("/maintenance/expire-bans", h.Moderation.ExpireBans)

	pres := api.Group("/presence")
	pres.GET("/health", h.Presence.Health)
	pres.GET("/stats", h.Presence.Stats)
	pres.POST("", h.Presence.Connect)
	pres.GET("", h.Presence.List)
	pres.GET("/:user_id", h.Presence.Get)
	pres.PATCH("/:user_id", h.Presence.Update)
	pres.DELETE("/:user_id", h.Presence.Delete)

	search := api.Group("/search")
	search.GET("", h.Search.General)
	search.GET("/threads/daterange", h.Search.ThreadsByDateRange)
	for _, by := range []model.ThreadLookup{
		model.ThreadByID,
		model.ThreadByCategory,
		model.ThreadByAuthor,
		model.ThreadByTag,
		model.ThreadByKeyword,
	} {
		search.GET("/threads/"+string(by)+"/:value", h.Search.Threads(by))
	}
	search.GET("/messages", h.Search.Messages)
	search.GET("/files", h.Search.Files)

	files := api.Group("/files")
	files.POST("", h.Files.Upload)
	files.GET("", h.Files.List)
	files.GET("/:file_id", h.Files.Get)
	files.DELETE("/:file_id", h.Files.Delete)
	files.POST("/:file_id/presign-download", h.Files.PresignDownload)

	api.POST("/wikipedia/chat", h.Chatbots.WikipediaChat)
	bot := api.Group("/chatbot")
	bot.POST("/chat", h.Chatbots.Chat)
	bot.GET("/health", h.Chatbots.Health)
	bot.GET("/questions", h.Chatbots.Question)
	bot.POST("/questions/publish", h.Chatbots.PublishQuestion)
}
