// Package validation содержит функции валидации входных данных.
package validation

import "strings"

const (
	cardNumberLength = 12
	cvvLength        = 3
)

// IsValidCardNumber проверяет формат номера карты: ровно 12 цифр.
// Платёжная система не вызывается, проверяется только формат.
func IsValidCardNumber(number string) bool {
	return isDigits(number, cardNumberLength)
}

// IsValidCVV проверяет формат CVV: ровно 3 цифры.
func IsValidCVV(cvv string) bool {
	return isDigits(cvv, cvvLength)
}

// NormalizeLocation приводит название пункта к виду для сравнения без учёта регистра.
func NormalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail приводит адрес почты к каноническому виду.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
