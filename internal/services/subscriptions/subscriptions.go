package subscriptions

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/adl-parti/membership-backend/internal/constants"
	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/adl-parti/membership-backend/internal/repository"
	svc "github.com/adl-parti/membership-backend/internal/services"
	"github.com/jmoiron/sqlx"
)

var (
	_ SubscriptionRepository = (*repository.SubscriptionRepository)(nil)
	_ MemberRepository       = (*repository.MemberRepository)(nil)
)

type SubscriptionRepository interface {
	Create(ctx context.Context, entry repository.SubscriptionHistory, tx *sqlx.Tx) (*repository.SubscriptionHistory, error)
	List(ctx context.Context, membershipNumber string) ([]*repository.SubscriptionHistory, error)
}

type MemberRepository interface {
	Exists(ctx context.Context, filter repository.MemberRepositoryFilter) (bool, error)
	UpdateSubscription(ctx context.Context, membershipNumber, subscriptionType string, year int, tx *sqlx.Tx) error
}

type Subscription struct {
	DB               *sqlx.DB
	SubscriptionRepo SubscriptionRepository
	MemberRepo       MemberRepository
}

func New(db *sqlx.DB, subscriptionRepo SubscriptionRepository, memberRepo MemberRepository) *Subscription {
	return &Subscription{
		DB:               db,
		SubscriptionRepo: subscriptionRepo,
		MemberRepo:       memberRepo,
	}
}

// Update appends a ledger entry and refreshes the member's denormalized
// subscription fields in the same transaction, so the denormalized pair
// always equals the most recent ledger row.
func (s *Subscription) Update(ctx context.Context, membershipNumber string, input dto.UpdateSubscriptionInput) (*dto.Subscription, error) {
	exists, err := s.MemberRepo.Exists(ctx, repository.MemberRepositoryFilter{
		MembershipNumber: &membershipNumber,
	})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &svc.APIError{
			Status:  http.StatusNotFound,
			Message: "member not found",
		}
	}

	amount, ok := constants.SubscriptionAmounts[constants.SubscriptionType(input.SubscriptionType)]
	if !ok {
		return nil, &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: "unknown subscription type: " + input.SubscriptionType,
		}
	}

	year := time.Now().Year()

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := s.SubscriptionRepo.Create(ctx, repository.SubscriptionHistory{
		MembershipNumber: membershipNumber,
		SubscriptionType: input.SubscriptionType,
		Amount:           amount,
		Year:             year,
	}, tx)
	if err != nil {
		return nil, err
	}

	if err := s.MemberRepo.UpdateSubscription(ctx, membershipNumber, input.SubscriptionType, year, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return mapRepositoryToDTO(entry), nil
}

// History returns the member's ledger, most recent first.
func (s *Subscription) History(ctx context.Context, membershipNumber string) ([]dto.Subscription, error) {
	exists, err := s.MemberRepo.Exists(ctx, repository.MemberRepositoryFilter{
		MembershipNumber: &membershipNumber,
	})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &svc.APIError{
			Status:  http.StatusNotFound,
			Message: "member not found",
		}
	}

	entries, err := s.SubscriptionRepo.List(ctx, membershipNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return []dto.Subscription{}, nil
		}
		return nil, err
	}

	out := make([]dto.Subscription, 0, len(entries))
	for _, entry := range entries {
		out = append(out, *mapRepositoryToDTO(entry))
	}
	return out, nil
}

func mapRepositoryToDTO(entry *repository.SubscriptionHistory) *dto.Subscription {
	return &dto.Subscription{
		SubscriptionType: entry.SubscriptionType,
		Amount:           entry.Amount,
		Year:             entry.Year,
		PaidAt:           entry.PaidAt,
	}
}
