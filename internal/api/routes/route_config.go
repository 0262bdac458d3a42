package routes

import (
	"GiveShare-Backend/internal/api/handlers"
	"GiveShare-Backend/internal/middleware"
	"GiveShare-Backend/pkg/jwt"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	ItemHandler         handlers.ItemHandler
	LifecycleHandler    handlers.LifecycleHandler
	NotificationHandler handlers.NotificationHandler
	StreamHandler       handlers.StreamHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Items()
	c.Requests()
	c.Notifications()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Get("/stats", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetProfileStats)
		user.Get("/stats/stream", c.Middleware.AuthMiddleware(c.JWTService), c.StreamHandler.StreamStats)
	}
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))

	items.Post("", c.ItemHandler.CreateItem)
	items.Get("", c.ItemHandler.BrowseItems)
	items.Get("/mine", c.ItemHandler.GetOwnItems)
	items.Get("/:id", c.ItemHandler.GetItemDetails)
	items.Patch("/:id", c.ItemHandler.UpdateItem)
	items.Delete("/:id", c.LifecycleHandler.DeleteItem)

	// Lifecycle transitions
	items.Post("/:id/request", c.LifecycleHandler.RequestItem)
	items.Post("/:id/requests/:request_id/approve", c.LifecycleHandler.ApproveRequest)
	items.Post("/:id/requests/:request_id/reject", c.LifecycleHandler.RejectRequest)
	items.Post("/:id/donated", c.LifecycleHandler.MarkDonated)
}

func (c *Config) Requests() {
	requests := c.App.Group("/api/v1/requests", c.Middleware.AuthMiddleware(c.JWTService))

	requests.Get("/incoming", c.LifecycleHandler.GetIncomingRequests)
	requests.Get("/outgoing", c.LifecycleHandler.GetOutgoingRequests)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))

	notifications.Get("", c.NotificationHandler.GetNotifications)
	notifications.Get("/unread_count", c.NotificationHandler.GetUnreadCount)
	notifications.Get("/stream", c.StreamHandler.StreamNotifications)
	notifications.Patch("/read_all", c.NotificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", c.NotificationHandler.MarkRead)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
