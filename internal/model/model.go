// Package model содержит доменные сущности сервиса вовлечённости клиентов.
package model

import "time"

// Customer представляет клиента, оставившего контактные данные при первом визите.
// Запись создаётся один раз и дальше не изменяется и не удаляется.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// SearchField описывает поле клиента, по которому выполняется поиск.
type SearchField string

const (
	SearchByName  SearchField = "name"
	SearchByEmail SearchField = "email"
)

// Valid сообщает, поддерживается ли поле для поиска.
func (f SearchField) Valid() bool {
	return f == SearchByName || f == SearchByEmail
}

// EngagementRecord описывает выполненные клиентом действия лояльности.
// Флаги переходят только из false в true и назад не сбрасываются.
type EngagementRecord struct {
	CustomerID         string
	GoogleReviewed     bool
	GoogleReviewAt     *time.Time
	InstagramFollowed  bool
	InstagramFollowAt  *time.Time
	DiscountRedeemed   bool
	DiscountRedeemedAt *time.Time
	CreatedAt          time.Time
}

// CustomerEngagement объединяет клиента с его записью вовлечённости.
// Отсутствующая запись трактуется как «действий ещё не было» и представлена
// нулевым значением Engagement.
type CustomerEngagement struct {
	Customer   Customer
	Engagement EngagementRecord
}
