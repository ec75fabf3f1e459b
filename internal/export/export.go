// Package export сериализует данные клиентов в CSV для выгрузки администратором.
package export

import (
	"bytes"
	"strings"
	"time"
)

// Header перечисляет колонки выгрузки в фиксированном порядке.
var Header = []string{
	"Name",
	"Email",
	"Date Added",
	"Google Review",
	"Instagram Follow",
	"Discount Redeemed",
	"Discount Redeemed Date",
}

// Build собирает CSV-документ из строк. Правило экранирования повторяет
// исходный формат выгрузки: двойные кавычки внутри поля удваиваются всегда,
// а в кавычки поле оборачивается только если содержит запятую.
func Build(rows [][]string) []byte {
	var buf bytes.Buffer
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for j, field := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(escape(field))
		}
	}
	return buf.Bytes()
}

func escape(field string) string {
	escaped := strings.ReplaceAll(field, `"`, `""`)
	if strings.Contains(escaped, ",") {
		return `"` + escaped + `"`
	}
	return escaped
}

// Filename возвращает имя файла выгрузки вида <prefix>-<YYYY-MM-DD>.csv.
func Filename(prefix string, day time.Time) string {
	return prefix + "-" + day.Format("2006-01-02") + ".csv"
}
