// Package service реализует бизнес-логику сервиса вовлечённости клиентов.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bhutanwine/engagement-system/internal/discount"
	"github.com/bhutanwine/engagement-system/internal/model"
	"github.com/bhutanwine/engagement-system/internal/repository"
	"github.com/bhutanwine/engagement-system/internal/validation"
)

// Ошибки валидации входных данных. Проверяются до обращения к хранилищу.
var (
	ErrInvalidName  = errors.New("name must not be empty")
	ErrInvalidEmail = errors.New("email is not valid")
	// ErrInvalidSearchField возвращается при неподдерживаемом поле поиска.
	ErrInvalidSearchField = errors.New("unsupported search field")
	// ErrNoCustomers возвращается, если под условия выгрузки не попал ни один клиент.
	ErrNoCustomers = errors.New("no customers found")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateCustomer(ctx context.Context, name, email string) (*model.Customer, error)
	ListCustomersOrdered(ctx context.Context, field model.SearchField, limit int) ([]model.Customer, error)
	ListCustomersByCreatedRange(ctx context.Context, start, end *time.Time) ([]model.Customer, error)
	GetEngagement(ctx context.Context, customerID string) (*model.EngagementRecord, error)
	CreateEngagement(ctx context.Context, customerID string) error
	MarkGoogleReviewed(ctx context.Context, customerID string) error
	MarkInstagramFollowed(ctx context.Context, customerID string) error
	MarkDiscountRedeemed(ctx context.Context, customerID string) error
}

// Service содержит бизнес-логику сервиса вовлечённости клиентов.
type Service struct {
	repo         Repository
	exportPrefix string
}

// NewService создаёт новый сервис с указанным репозиторием и префиксом файлов выгрузки.
func NewService(repo Repository, exportPrefix string) *Service {
	return &Service{
		repo:         repo,
		exportPrefix: exportPrefix,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// EngagementState описывает текущее состояние вовлечённости клиента для отображения.
type EngagementState struct {
	GoogleReviewed    bool
	InstagramFollowed bool
	Discount          int
	Completed         bool
	// JustCompleted взводится ровно один раз — на переходе из «не все действия»
	// в «оба действия выполнены». На повторных чтениях остаётся false.
	JustCompleted bool
}

func stateFromRecord(rec *model.EngagementRecord) EngagementState {
	return EngagementState{
		GoogleReviewed:    rec.GoogleReviewed,
		InstagramFollowed: rec.InstagramFollowed,
		Discount:          discount.Total(rec.GoogleReviewed, rec.InstagramFollowed),
		Completed:         discount.Complete(rec.GoogleReviewed, rec.InstagramFollowed),
	}
}

// RegisterCustomer создаёт клиента и инициализирует его запись вовлечённости.
// Два вызова хранилища последовательны и не атомарны: при сбое между ними
// остаётся клиент без записи, что дальше трактуется как «действий ещё не было».
func (s *Service) RegisterCustomer(ctx context.Context, name, email string) (string, error) {
	if !validation.IsValidName(name) {
		return "", ErrInvalidName
	}
	if !validation.IsValidEmail(email) {
		return "", ErrInvalidEmail
	}

	customer, err := s.repo.CreateCustomer(ctx, name, email)
	if err != nil {
		return "", fmt.Errorf("register customer: %w", err)
	}

	if err := s.repo.CreateEngagement(ctx, customer.ID); err != nil {
		return "", fmt.Errorf("init engagement: %w", err)
	}

	return customer.ID, nil
}

// InitializeEngagement возвращает состояние вовлечённости клиента, создавая
// запись при её отсутствии. Создание выполняется по схеме create-if-absent,
// а не compare-and-swap: параллельная инициализация безопасна, так как
// начальные значения всегда одни и те же константы.
func (s *Service) InitializeEngagement(ctx context.Context, customerID string) (*EngagementState, error) {
	rec, err := s.repo.GetEngagement(ctx, customerID)
	if err != nil {
		if !errors.Is(err, repository.ErrEngagementNotFound) {
			return nil, fmt.Errorf("initialize engagement: %w", err)
		}

		if err := s.repo.CreateEngagement(ctx, customerID); err != nil {
			return nil, fmt.Errorf("initialize engagement: %w", err)
		}
		rec = &model.EngagementRecord{CustomerID: customerID}
	}

	state := stateFromRecord(rec)
	return &state, nil
}

// RecordGoogleReview отмечает отзыв в Google и возвращает обновлённое состояние.
// Запись должна быть инициализирована заранее; при сбое хранилища состояние
// не меняется и клиенту возвращается прежняя скидка.
func (s *Service) RecordGoogleReview(ctx context.Context, customerID string) (*EngagementState, error) {
	return s.recordAction(ctx, customerID, s.repo.MarkGoogleReviewed, func(rec *model.EngagementRecord) {
		rec.GoogleReviewed = true
	})
}

// RecordInstagramFollow отмечает подписку в Instagram и возвращает обновлённое состояние.
func (s *Service) RecordInstagramFollow(ctx context.Context, customerID string) (*EngagementState, error) {
	return s.recordAction(ctx, customerID, s.repo.MarkInstagramFollowed, func(rec *model.EngagementRecord) {
		rec.InstagramFollowed = true
	})
}

func (s *Service) recordAction(
	ctx context.Context,
	customerID string,
	mark func(context.Context, string) error,
	apply func(*model.EngagementRecord),
) (*EngagementState, error) {
	before, err := s.repo.GetEngagement(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("record action: %w", err)
	}

	if err := mark(ctx, customerID); err != nil {
		return nil, fmt.Errorf("record action: %w", err)
	}

	wasComplete := discount.Complete(before.GoogleReviewed, before.InstagramFollowed)

	after := *before
	apply(&after)

	state := stateFromRecord(&after)
	state.JustCompleted = state.Completed && !wasComplete

	return &state, nil
}
