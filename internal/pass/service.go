package pass

import (
	"context"
	"errors"
	"time"

	"gympass/internal/clock"
	"gympass/internal/logger"
	"gympass/internal/offer"
	"gympass/internal/user"
	"gympass/internal/wallet"
)

var (
	ErrPassNotFound       = errors.New("pass not found")
	ErrOfferNotFound      = errors.New("offer not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrPastStartDate      = errors.New("start date cannot be in the past")
	ErrRetroSuspension    = errors.New("suspension date must be in the future")
	ErrSuspensionAfterEnd = errors.New("suspension date cannot be after the pass end date")
	ErrAlreadySuspended   = errors.New("pass is already suspended")
	ErrStartAfterEnd      = errors.New("start date cannot be after end date")
	ErrNoPassesFound      = errors.New("no passes found")
	ErrVersionConflict    = errors.New("pass was modified concurrently")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrPassNotValid       = errors.New("pass does not grant entry")
)

// Mailer sends lifecycle confirmations. Queued delivery, never blocks the
// purchase path on SMTP.
type Mailer interface {
	SendPassPurchased(ctx context.Context, to, name, offerTitle string, endDate time.Time) error
	SendPassDeleted(ctx context.Context, to, name, offerTitle string) error
}

type Service interface {
	Purchase(ctx context.Context, userID int, req PurchaseRequest) (*Pass, error)
	Suspend(ctx context.Context, passID int, req SuspendRequest) (*Pass, error)
	Delete(ctx context.Context, passID int) (*Pass, error)
	Validity(ctx context.Context, passID int) (*Validity, error)
	CheckIn(ctx context.Context, passID int) (*Validity, error)
	ListForUser(ctx context.Context, userID int, from, to *time.Time) ([]PassWithValidity, error)
	LatestForUser(ctx context.Context, userID int) (*PassWithValidity, error)
	ListAll(ctx context.Context, from, to *time.Time, page, perPage int) (*Page, error)
}

type service struct {
	repo    Repository
	offers  offer.Repository
	users   user.Repository
	wallets wallet.Repository
	mailer  Mailer
	clock   clock.Clock
}

func NewService(
	repo Repository,
	offers offer.Repository,
	users user.Repository,
	wallets wallet.Repository,
	mailer Mailer,
	clk clock.Clock,
) Service {
	return &service{
		repo:    repo,
		offers:  offers,
		users:   users,
		wallets: wallets,
		mailer:  mailer,
		clock:   clk,
	}
}

func (s *service) Purchase(ctx context.Context, userID int, req PurchaseRequest) (*Pass, error) {
	o, err := s.offers.GetByID(ctx, req.OfferID)
	if err != nil {
		return nil, ErrOfferNotFound
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	start = dateOnly(start)

	today := dateOnly(s.clock.Now())
	if start.Before(today) {
		return nil, ErrPastStartDate
	}

	p := &Pass{
		OfferID:     o.ID,
		OfferTitle:  o.Title,
		PriceCents:  o.PriceCents,
		Currency:    o.Currency,
		UserID:      u.ID,
		UserName:    u.Name,
		UserSurname: u.Surname,
		PurchasedAt: s.clock.Now(),
		StartDate:   start,
	}

	switch o.Kind {
	case offer.KindEntries:
		p.Kind = KindEntries
		p.EntriesRemaining = o.Entries
		p.EndDate = entryPassEndDate
	default:
		p.Kind = KindTime
		p.EndDate = start.AddDate(0, o.PeriodMonths, 0)
	}

	if err := s.wallets.AddTransaction(ctx, userID, -o.PriceCents, "pass_purchase"); err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		// The charge went through but the pass did not; refund so a failed
		// operation leaves no lasting side effect.
		if refundErr := s.wallets.AddTransaction(ctx, userID, o.PriceCents, "refund"); refundErr != nil {
			logger.Errorf("Failed to refund user %d after pass creation error: %v", userID, refundErr)
		}
		return nil, err
	}

	if s.mailer != nil {
		if mailErr := s.mailer.SendPassPurchased(ctx, u.Email, u.Name, created.OfferTitle, created.EndDate); mailErr != nil {
			logger.Errorf("Failed to queue purchase confirmation for user %d: %v", userID, mailErr)
		}
	}

	return created, nil
}

func (s *service) Suspend(ctx context.Context, passID int, req SuspendRequest) (*Pass, error) {
	p, err := s.repo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	until, err := time.Parse(dateLayout, req.SuspendedUntil)
	if err != nil {
		return nil, ErrInvalidDate
	}
	until = dateOnly(until)

	today := dateOnly(s.clock.Now())
	if !until.After(today) {
		return nil, ErrRetroSuspension
	}
	if until.After(dateOnly(p.EndDate)) {
		return nil, ErrSuspensionAfterEnd
	}
	if p.SuspendedUntil != nil && !dateOnly(*p.SuspendedUntil).Before(today) {
		return nil, ErrAlreadySuspended
	}

	// Time passes are compensated for the frozen days by pushing the expiry
	// outward; entry passes keep their counter, calendar time is not the
	// scarce resource there.
	if p.Kind == KindTime {
		p.EndDate = p.EndDate.AddDate(0, 0, daysBetween(today, until))
	}
	p.SuspendedUntil = &until

	return s.repo.Update(ctx, p)
}

func (s *service) Delete(ctx context.Context, passID int) (*Pass, error) {
	p, err := s.repo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, passID); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if u, lookupErr := s.users.FindByID(ctx, p.UserID); lookupErr == nil {
			if mailErr := s.mailer.SendPassDeleted(ctx, u.Email, u.Name, p.OfferTitle); mailErr != nil {
				logger.Errorf("Failed to queue deletion notice for user %d: %v", p.UserID, mailErr)
			}
		}
	}

	return p, nil
}

func (s *service) Validity(ctx context.Context, passID int) (*Validity, error) {
	p, err := s.repo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	v := ComputeValidity(*p, s.clock.Now())
	return &v, nil
}

// CheckIn consumes one entry on an entry pass; time passes pass through
// untouched. The validity rules are the same ones every read path uses.
func (s *service) CheckIn(ctx context.Context, passID int) (*Validity, error) {
	p, err := s.repo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	v := ComputeValidity(*p, s.clock.Now())
	if !v.Valid {
		return &v, ErrPassNotValid
	}

	if p.Kind == KindEntries {
		p.EntriesRemaining--
		updated, err := s.repo.Update(ctx, p)
		if err != nil {
			return nil, err
		}
		v = ComputeValidity(*updated, s.clock.Now())
	}

	return &v, nil
}

func (s *service) ListForUser(ctx context.Context, userID int, from, to *time.Time) ([]PassWithValidity, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrStartAfterEnd
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}

	passes, err := s.repo.ListForUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(passes) == 0 {
		return nil, ErrNoPassesFound
	}

	now := s.clock.Now()
	result := make([]PassWithValidity, 0, len(passes))
	for _, p := range passes {
		result = append(result, PassWithValidity{
			Pass:     p,
			Validity: ComputeValidity(p, now),
		})
	}

	return result, nil
}

func (s *service) LatestForUser(ctx context.Context, userID int) (*PassWithValidity, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}

	now := s.clock.Now()
	p, err := s.repo.LatestActiveForUser(ctx, userID, dateOnly(now))
	if err != nil {
		return nil, err
	}

	return &PassWithValidity{
		Pass:     *p,
		Validity: ComputeValidity(*p, now),
	}, nil
}

func (s *service) ListAll(ctx context.Context, from, to *time.Time, page, perPage int) (*Page, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrStartAfterEnd
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	items, total, err := s.repo.ListByPurchaseWindow(ctx, from, to, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}
