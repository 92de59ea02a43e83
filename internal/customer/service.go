package customer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/core/events"
	"github.com/frahmantamala/office-management/internal/core/user"
)

type RepositoryAPI interface {
	All(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, fn func(customers *[]Customer) error) error
}

type Service struct {
	repo      RepositoryAPI
	clock     internal.Clock
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		clock:     internal.NewClock(nil),
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) WithClock(clock internal.Clock) *Service {
	s.clock = clock
	return s
}

func (s *Service) List(ctx context.Context, viewer *user.User) (CustomersView, error) {
	customers, err := s.repo.All(ctx)
	if err != nil {
		return CustomersView{}, fmt.Errorf("load customers: %w", err)
	}
	if customers == nil {
		customers = []Customer{}
	}
	return CustomersView{Customers: customers, CanEdit: viewer.IsAdmin()}, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	customers, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load customers: %w", err)
	}
	return len(customers), nil
}

func (s *Service) Add(ctx context.Context, actor string, dto AddCustomerDTO) (Customer, error) {
	created := NewCustomer(dto)
	err := s.repo.Update(ctx, func(customers *[]Customer) error {
		*customers = append(*customers, created)
		return nil
	})
	if err != nil {
		return Customer{}, fmt.Errorf("add customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer added", "id", created.ID, "name", created.Name, "actor", actor)
	s.publish(ctx, actor, created.ID, "added", nil)
	return created, nil
}

// UpdatePayment records the payment status for the week range, replacing
// any entry with the same week string.
func (s *Service) UpdatePayment(ctx context.Context, actor string, dto WeekUpdateDTO) error {
	entry := WeeklyPayment{
		Week:   dto.Week(),
		Status: dto.Status,
		Date:   internal.FormatDate(s.clock()),
	}
	err := s.modify(ctx, dto.ID, func(c *Customer) { c.SetPayment(entry) })
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "customer payment updated", "id", dto.ID, "week", entry.Week, "status", entry.Status, "actor", actor)
	s.publish(ctx, actor, dto.ID, "payment", map[string]interface{}{"week": entry.Week, "status": entry.Status})
	return nil
}

// UpdateInvoice records the invoice status and reason for the week range,
// replacing any entry with the same week string.
func (s *Service) UpdateInvoice(ctx context.Context, actor string, dto WeekUpdateDTO) error {
	entry := Invoice{
		Week:   dto.Week(),
		Status: dto.Status,
		Reason: dto.Reason,
		Date:   internal.FormatDate(s.clock()),
	}
	err := s.modify(ctx, dto.ID, func(c *Customer) { c.SetInvoice(entry) })
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "customer invoice updated", "id", dto.ID, "week", entry.Week, "status", entry.Status, "actor", actor)
	s.publish(ctx, actor, dto.ID, "invoice", map[string]interface{}{"week": entry.Week, "status": entry.Status})
	return nil
}

func (s *Service) Delete(ctx context.Context, actor, id string) error {
	err := s.repo.Update(ctx, func(customers *[]Customer) error {
		i := indexOf(*customers, id)
		if i < 0 {
			return ErrCustomerNotFound
		}
		*customers = append((*customers)[:i], (*customers)[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "customer deleted", "id", id, "actor", actor)
	s.publish(ctx, actor, id, "deleted", nil)
	return nil
}

func (s *Service) modify(ctx context.Context, id string, fn func(c *Customer)) error {
	return s.repo.Update(ctx, func(customers *[]Customer) error {
		i := indexOf(*customers, id)
		if i < 0 {
			return ErrCustomerNotFound
		}
		fn(&(*customers)[i])
		return nil
	})
}

func (s *Service) publish(ctx context.Context, actor, id, change string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["change"] = change
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeCustomerUpdated, actor, id, data))
}
