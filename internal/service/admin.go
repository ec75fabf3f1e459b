package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bhutanwine/engagement-system/internal/export"
	"github.com/bhutanwine/engagement-system/internal/model"
	"github.com/bhutanwine/engagement-system/internal/repository"
)

// maxSearchScan ограничивает число клиентов, читаемых из хранилища до фильтрации.
// Подстрочный поиск выполняется на стороне клиента поверх отсортированной выборки,
// поэтому совпадения дальше первой сотни по порядку сортировки не находятся.
// Это осознанный компромисс точности и объёма чтения, а не ошибка.
const maxSearchScan = 100

// SearchCustomers ищет клиентов по подстроке в имени или email без учёта регистра
// и дополняет каждое совпадение записью вовлечённости. Отсутствующая запись
// означает «действий ещё не было» и не считается ошибкой.
func (s *Service) SearchCustomers(ctx context.Context, term string, field model.SearchField) ([]model.CustomerEngagement, error) {
	if !field.Valid() {
		return nil, ErrInvalidSearchField
	}

	customers, err := s.repo.ListCustomersOrdered(ctx, field, maxSearchScan)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}

	termLower := strings.ToLower(strings.TrimSpace(term))

	var matches []model.CustomerEngagement
	for _, c := range customers {
		value := c.Name
		if field == model.SearchByEmail {
			value = c.Email
		}

		if !strings.Contains(strings.ToLower(value), termLower) {
			continue
		}

		merged, err := s.mergeEngagement(ctx, c)
		if err != nil {
			// Частично собранные результаты отбрасываются: операция целиком
			// завершается ошибкой, а не частичным успехом.
			return nil, fmt.Errorf("search customers: %w", err)
		}
		matches = append(matches, merged)
	}

	return matches, nil
}

// RedeemDiscount отмечает скидку клиента использованной. Предусловия
// (хотя бы одно выполненное действие, скидка ещё не погашена) проверяются
// только интерфейсом администратора; повторное погашение идемпотентно
// и сохраняет время первого вызова.
func (s *Service) RedeemDiscount(ctx context.Context, customerID string) error {
	if err := s.repo.MarkDiscountRedeemed(ctx, customerID); err != nil {
		return fmt.Errorf("redeem discount: %w", err)
	}
	return nil
}

// Export содержит готовый CSV-документ и предлагаемое имя файла.
type Export struct {
	Filename string
	Data     []byte
}

// ExportCSV выгружает клиентов, созданных в указанном интервале дат, вместе
// с их записями вовлечённости. Начальная граница приводится к началу суток,
// конечная — к концу суток; обе включаются в интервал.
func (s *Service) ExportCSV(ctx context.Context, start, end *time.Time) (*Export, error) {
	if start != nil {
		floored := startOfDay(*start)
		start = &floored
	}
	if end != nil {
		ceiled := endOfDay(*end)
		end = &ceiled
	}

	customers, err := s.repo.ListCustomersByCreatedRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}

	return s.buildExport(ctx, customers, s.exportPrefix)
}

// ExportAllCSV выгружает всех клиентов без фильтрации по датам. Отдельная
// операция, а не частный случай ExportCSV: структура CSV при этом идентична.
func (s *Service) ExportAllCSV(ctx context.Context) (*Export, error) {
	customers, err := s.repo.ListCustomersByCreatedRange(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("export all csv: %w", err)
	}

	return s.buildExport(ctx, customers, s.exportPrefix+"-all")
}

func (s *Service) buildExport(ctx context.Context, customers []model.Customer, prefix string) (*Export, error) {
	if len(customers) == 0 {
		return nil, ErrNoCustomers
	}

	rows := make([][]string, 0, len(customers)+1)
	rows = append(rows, export.Header)

	for _, c := range customers {
		merged, err := s.mergeEngagement(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("build export: %w", err)
		}

		rec := merged.Engagement
		rows = append(rows, []string{
			c.Name,
			c.Email,
			c.CreatedAt.Format("2006-01-02"),
			yesNo(rec.GoogleReviewed),
			yesNo(rec.InstagramFollowed),
			yesNo(rec.DiscountRedeemed),
			formatDate(rec.DiscountRedeemedAt),
		})
	}

	return &Export{
		Filename: export.Filename(prefix, time.Now()),
		Data:     export.Build(rows),
	}, nil
}

func (s *Service) mergeEngagement(ctx context.Context, c model.Customer) (model.CustomerEngagement, error) {
	merged := model.CustomerEngagement{Customer: c}

	rec, err := s.repo.GetEngagement(ctx, c.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEngagementNotFound) {
			merged.Engagement.CustomerID = c.ID
			return merged, nil
		}
		return model.CustomerEngagement{}, err
	}

	merged.Engagement = *rec
	return merged, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
