package utils

import (
	"strings"
	"unicode"
)

func SanitizeLogMessage(msg string) string {
	var sb strings.Builder
	for _, r := range msg {
		if r == 10 || r == 9 {
			sb.WriteRune(r)
		} else if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// SanitizeLogEmail 截断并清洗用于日志的邮箱
func SanitizeLogEmail(email string) string {
	if len(email) > 50 {
		email = email[:50] + "..."
	}
	return SanitizeLogMessage(email)
}
