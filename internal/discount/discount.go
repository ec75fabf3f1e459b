// Package discount вычисляет накопленную скидку клиента по выполненным действиям.
package discount

// Базовая скидка выдаётся за сам визит, каждое выполненное действие добавляет
// ещё PerAction процентов. Действий два, поэтому максимум ограничен Max.
const (
	Base      = 5
	PerAction = 5
	Max       = Base + 2*PerAction
)

// Total возвращает суммарный процент скидки для указанных флагов.
func Total(googleReviewed, instagramFollowed bool) int {
	total := Base
	if googleReviewed {
		total += PerAction
	}
	if instagramFollowed {
		total += PerAction
	}
	return total
}

// Complete сообщает, выполнены ли оба действия.
func Complete(googleReviewed, instagramFollowed bool) bool {
	return googleReviewed && instagramFollowed
}

// RevealSteps возвращает последовательность промежуточных значений для анимации
// счётчика скидки: от уже показанного значения до total с шагом 1.
// Если показанное значение не меньше total, последовательность пуста.
func RevealSteps(shown, total int) []int {
	if shown >= total {
		return nil
	}

	steps := make([]int, 0, total-shown)
	for v := shown + 1; v <= total; v++ {
		steps = append(steps, v)
	}
	return steps
}
