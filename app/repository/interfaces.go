package repository

import (
	"context"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id, role string) error
	UpdateAvatar(ctx context.Context, id, url string) error
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	Count(ctx context.Context, q Query) (int64, error)
}

// LeadFilter narrows lead listings; empty fields are ignored.
type LeadFilter struct {
	HomeownerID string
	Status      string
	Category    string
	Categories  []string
	Offset      int
	Limit       int
}

// LeadRepository defines the interface for lead-related database operations
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	FindByID(ctx context.Context, id string) (*models.Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]models.Lead, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteWithThreads(ctx context.Context, id string) error
}

// ThreadRepository covers lead-scoped threads and their messages
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	FindByID(ctx context.Context, id string) (*models.Thread, error)
	ListByUser(ctx context.Context, userID string) ([]models.Thread, error)
	AddMessage(ctx context.Context, threadID string, msg *models.Message) error
	ListMessages(ctx context.Context, threadID string, offset, limit int) ([]models.Message, error)
	DeleteWithMessages(ctx context.Context, id string) error
}

// ConversationRepository covers direct-message conversations and their messages
type ConversationRepository interface {
	FindOrCreate(ctx context.Context, a, b string) (*models.Conversation, bool, error)
	FindByID(ctx context.Context, id string) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	AddMessage(ctx context.Context, conversationID string, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID string, offset, limit int) ([]models.Message, error)
	DeleteWithMessages(ctx context.Context, id string) error
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// AffiliateRepository covers affiliates and their commissions
type AffiliateRepository interface {
	Create(ctx context.Context, a *models.Affiliate) error
	FindByID(ctx context.Context, id string) (*models.Affiliate, error)
	AddCommission(ctx context.Context, c *models.Commission) error
	ListCommissions(ctx context.Context, affiliateID string) ([]models.Commission, error)
	CommissionTotals(ctx context.Context, affiliateID string) (CommissionTotalsResult, error)
	PayOutstanding(ctx context.Context, affiliateID string) (int64, error)
}

// ReviewRepository defines the interface for contractor reviews
type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	ListByContractor(ctx context.Context, contractorID string, offset, limit int) ([]models.Review, error)
	RatingSummary(ctx context.Context, contractorID string) (RatingSummaryResult, error)
}

// TransactionRepository defines the interface for the money ledger
type TransactionRepository interface {
	Create(ctx context.Context, t *models.Transaction) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Transaction, error)
}

// StatsRepository serves admin aggregates
type StatsRepository interface {
	PlatformStats(ctx context.Context) (PlatformStatsResult, error)
	Ping(ctx context.Context) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Lead         LeadRepository
	Thread       ThreadRepository
	Conversation ConversationRepository
	Notification NotificationRepository
	Affiliate    AffiliateRepository
	Review       ReviewRepository
	Transaction  TransactionRepository
	Stats        StatsRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Lead:         NewLeadRepository(db),
		Thread:       NewThreadRepository(db),
		Conversation: NewConversationRepository(db),
		Notification: NewNotificationRepository(db),
		Affiliate:    NewAffiliateRepository(db),
		Review:       NewReviewRepository(db),
		Transaction:  NewTransactionRepository(db),
		Stats:        NewStatsRepository(db),
	}
}
