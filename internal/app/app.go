// Package app wires repositories, adapters and application services.
package app

import (
	"time"

	identityapp "github.com/rentwise/backend/internal/application/identity"
	leasingapp "github.com/rentwise/backend/internal/application/leasing"
	messagingapp "github.com/rentwise/backend/internal/application/messaging"
	propertyapp "github.com/rentwise/backend/internal/application/property"
	taskapp "github.com/rentwise/backend/internal/application/task"
	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/rentwise/backend/internal/infrastructure/geocoding"
	"github.com/rentwise/backend/internal/infrastructure/metrics"
	"github.com/rentwise/backend/internal/infrastructure/notification"
	"github.com/rentwise/backend/internal/infrastructure/persistence"
	"github.com/rentwise/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the adapters the services are built on
type Deps struct {
	DB        *gorm.DB
	Tokens    *auth.JWTService
	Blacklist auth.TokenBlacklist
	Notifier  notification.Notifier
	Storage   storage.ObjectStorage
	Geocoder  geocoding.Geocoder
	// Events receives domain events; nil disables publishing
	Events  shared.EventPublisher
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	Auth                 identityapp.AuthServiceConfig
	Upload               upload.Config
	BroadcastConcurrency int
}

// Services are the application services behind both transports
type Services struct {
	Auth         *identityapp.AuthService
	Users        *identityapp.UserService
	Properties   *propertyapp.PropertyService
	Listings     *propertyapp.ListingService
	Inspections  *propertyapp.InspectionService
	Applications *leasingapp.ApplicationService
	Leases       *leasingapp.LeaseService
	Tasks        *taskapp.Service
	Messaging    *messagingapp.Service
	Uploads      *upload.Service
}

// NewServices builds every repository and service over d
func NewServices(d Deps) *Services {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notifier := d.Notifier
	if notifier == nil {
		notifier = notification.NewLogNotifier(log)
	}
	blacklist := d.Blacklist
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	userRepo := persistence.NewGormUserRepository(d.DB)
	loginRepo := persistence.NewGormLoginRecordRepository(d.DB)
	resetRepo := persistence.NewGormPasswordResetRepository(d.DB)
	propertyRepo := persistence.NewGormPropertyRepository(d.DB)
	listingRepo := persistence.NewGormListingRepository(d.DB)
	inspectionRepo := persistence.NewGormInspectionRepository(d.DB)
	applicationRepo := persistence.NewGormApplicationRepository(d.DB)
	leaseRepo := persistence.NewGormLeaseRepository(d.DB)
	taskRepo := persistence.NewGormTaskRepository(d.DB)
	conversationRepo := persistence.NewGormConversationRepository(d.DB)
	messageRepo := persistence.NewGormMessageRepository(d.DB)

	uploads := upload.NewService(d.Storage, d.Upload, d.Metrics, log)
	messaging := messagingapp.NewService(conversationRepo, messageRepo, userRepo, d.BroadcastConcurrency, log)

	s := &Services{
		Auth:         identityapp.NewAuthService(userRepo, loginRepo, resetRepo, d.Tokens, blacklist, notifier, d.Auth, log),
		Users:        identityapp.NewUserService(userRepo, loginRepo, blacklist, revokeTTL(d.Tokens), log),
		Properties:   propertyapp.NewPropertyService(propertyRepo, userRepo, d.Geocoder, log),
		Listings:     propertyapp.NewListingService(propertyRepo, listingRepo, uploads, log),
		Inspections:  propertyapp.NewInspectionService(propertyRepo, inspectionRepo, userRepo, uploads, log),
		Applications: leasingapp.NewApplicationService(applicationRepo, leaseRepo, listingRepo, userRepo, messaging, notifier, log),
		Leases:       leasingapp.NewLeaseService(leaseRepo, userRepo, uploads, log),
		Tasks:        taskapp.NewService(taskRepo, userRepo, propertyRepo, log),
		Messaging:    messaging,
		Uploads:      uploads,
	}

	if d.Events != nil {
		s.Auth.SetEventPublisher(d.Events)
		s.Properties.SetEventPublisher(d.Events)
		s.Listings.SetEventPublisher(d.Events)
		s.Inspections.SetEventPublisher(d.Events)
		s.Applications.SetEventPublisher(d.Events)
		s.Leases.SetEventPublisher(d.Events)
	}
	return s
}

func revokeTTL(tokens *auth.JWTService) time.Duration {
	if tokens == nil {
		return 7 * 24 * time.Hour
	}
	return tokens.RefreshTokenExpiration()
}
