package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/metrics"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
)

// SubscribeOutcome is the three-way result of a signup: a fresh
// subscription, a reactivated one, or an already-active one.
type SubscribeOutcome int

const (
	OutcomeSubscribed SubscribeOutcome = iota
	OutcomeResubscribed
	OutcomeAlreadySubscribed
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (SubscribeOutcome, error)
	ListSubscribers(ctx context.Context, page, limit int) ([]*model.Subscription, dto.PaginationMeta, error)
}

type newsletterService struct {
	repo repository.NewsletterRepository
}

func NewNewsletterService(repo repository.NewsletterRepository) NewsletterService {
	return &newsletterService{repo: repo}
}

// Subscribe creates an active subscription for a new email, reactivates an
// inactive one, and reports already-subscribed for an active one without
// writing. The unique index on email backs the check-then-act sequence.
func (s *newsletterService) Subscribe(ctx context.Context, email string) (SubscribeOutcome, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}

		sub := &model.Subscription{Email: email, IsActive: true}
		if err := s.repo.Create(ctx, sub); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race with a concurrent signup for the same email.
				return OutcomeAlreadySubscribed, nil
			}
			return 0, err
		}
		metrics.NewsletterSignups.Inc()
		return OutcomeSubscribed, nil
	}

	if existing.IsActive {
		return OutcomeAlreadySubscribed, nil
	}

	if err := s.repo.SetActive(ctx, email, true); err != nil {
		return 0, err
	}
	metrics.NewsletterSignups.Inc()
	return OutcomeResubscribed, nil
}

func (s *newsletterService) ListSubscribers(ctx context.Context, page, limit int) ([]*model.Subscription, dto.PaginationMeta, error) {
	page, limit = normalizePage(page, limit)
	subs, total, err := s.repo.FindAll(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}
	return subs, dto.NewPaginationMeta(page, limit, total), nil
}
