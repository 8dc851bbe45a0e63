package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client

	UserService       *services.UserService
	EventService      *services.EventService
	PurchaseService   *services.PurchaseService
	TicketService     *services.TicketService
	PaymentService    *services.PaymentService
	ReviewService     *services.ReviewService
	FavouritesService *services.FavouriteService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cloudinary *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	supaUrl, supaKey string,
) *Container {
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	mongo := models.MongodbNewRepo(mongoDBClient)
	userStore := models.NewUserStore(supa, mongo)

	userService := services.NewUserService(userStore)
	eventService := services.NewEventService(mongo)
	purchaseService := services.NewPurchaseService(mongo, mongo, mongo, logger)
	ticketService := services.NewTicketService(mongo)
	paymentService := services.NewPaymentService(mongo, mongo, mongo, logger)
	reviewService := services.NewReviewService(mongo, mongo)
	favouriteService := services.NewFavouriteService(mongo)

	return &Container{
		Logger:            logger,
		Cloudinary:        cloudinary,
		SupabaseClient:    supabaseClient,
		MongoDBClient:     mongoDBClient,
		UserService:       userService,
		EventService:      eventService,
		PurchaseService:   purchaseService,
		TicketService:     ticketService,
		PaymentService:    paymentService,
		ReviewService:     reviewService,
		FavouritesService: favouriteService,
	}
}
