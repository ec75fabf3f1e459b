// Package validation содержит функции валидации входных данных.
package validation

import "strings"

// IsValidName проверяет, что имя клиента не пустое.
func IsValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// IsValidEmail проверяет, что строка похожа на адрес электронной почты:
// непустая локальная часть, один символ @ и домен с точкой.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || strings.ContainsAny(email, " \t") {
		return false
	}

	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return true
}
