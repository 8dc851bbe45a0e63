package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pulsetix/api/internal/container"
	"github.com/pulsetix/api/internal/handlers"
	"github.com/pulsetix/api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "pulsetix-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.SignUp(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService))
		v1.POST("/refresh", handlers.RefreshSession(container.UserService))
		v1.POST("/logout", handlers.Logout())

		// anonymous browsing
		v1.GET("/events", handlers.ListEvents(container.EventService))
		v1.GET("/events/search", handlers.SearchEvents(container.EventService))
		v1.GET("/events/:id", handlers.GetEvent(container.EventService))
		v1.GET("/events/:id/reviews", handlers.ListEventReviews(container.ReviewService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.UserService, container.Logger))

	protected.GET("/profile", handlers.GetMyProfile(container.UserService))

	userRoutes := protected.Group("/users")
	{
		userRoutes.PATCH("/:id", handlers.UpdateProfile(container.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteProfile(container.UserService))
	}

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("/", handlers.CreateEvent(container.EventService))
		eventRoutes.PATCH("/:id", handlers.UpdateEvent(container.EventService))
		eventRoutes.DELETE("/:id", handlers.DeleteEvent(container.EventService))
		eventRoutes.GET("/organizer/:organizer_id", handlers.ListEventsByOrganizer(container.EventService))

		eventRoutes.POST("/:id/purchase", handlers.PurchaseTickets(container.PurchaseService))

		eventRoutes.POST("/:id/reviews", handlers.CreateReview(container.ReviewService))
		eventRoutes.DELETE("/:id/reviews/:reviewId", handlers.DeleteReview(container.ReviewService))
	}

	protected.PATCH("/reviews/:reviewId", handlers.UpdateReview(container.ReviewService))

	ticketRoutes := protected.Group("/tickets")
	{
		ticketRoutes.GET("/", handlers.ListMyTickets(container.TicketService))
		ticketRoutes.GET("/:id", handlers.GetTicket(container.TicketService))
		ticketRoutes.GET("/:id/qr", handlers.TicketQR(container.TicketService))
		ticketRoutes.POST("/:id/validate", handlers.ValidateTicket(container.TicketService))
		ticketRoutes.POST("/:id/transfer", handlers.TransferTicket(container.TicketService))
		ticketRoutes.POST("/:id/refund", handlers.RequestTicketRefund(container.TicketService))
	}

	paymentRoutes := protected.Group("/payments")
	{
		paymentRoutes.GET("/", handlers.ListMyPayments(container.PaymentService))
		paymentRoutes.GET("/:id", handlers.GetPayment(container.PaymentService))
		paymentRoutes.POST("/reference/:reference/confirm", handlers.ConfirmPayment(container.PaymentService))
		paymentRoutes.POST("/reference/:reference/fail", handlers.FailPayment(container.PaymentService))
	}

	favouriteRoutes := protected.Group("/favourites")
	{
		favouriteRoutes.GET("/", handlers.GetUserFavourites(container.FavouritesService))
		favouriteRoutes.POST("/:id", handlers.AddToFavourites(container.FavouritesService))
		favouriteRoutes.DELETE("/:id", handlers.RemoveFromFavourite(container.FavouritesService))
	}

	return r
}
