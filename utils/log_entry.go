package utils

import (
	"regexp"
	"strings"
	"time"

	"villa-booking/types"

	"github.com/gofiber/fiber/v2"
)

const maxLoggedBody = 4096

var authHeaderPattern = regexp.MustCompile(`(?mi)^(Authorization|Cookie):.*$`)

// CreateSanitizedLogEntry copies the request/response exchange into a log entry.
// Binary bodies are replaced with a marker and credentials are redacted.
func CreateSanitizedLogEntry(c *fiber.Ctx, started time.Time) types.LogEntry {
	requestID, _ := c.Locals("reqid").(string)

	return types.LogEntry{
		RequestID:       requestID,
		Method:          string([]byte(c.Method())),
		URL:             string([]byte(c.OriginalURL())),
		RequestBody:     sanitizeBody(string(c.Request().Header.ContentType()), c.Body()),
		ResponseBody:    sanitizeBody(string(c.Response().Header.ContentType()), c.Response().Body()),
		RequestHeaders:  redactHeaders(string(c.Request().Header.Header())),
		ResponseHeaders: string(append([]byte(nil), c.Response().Header.Header()...)),
		StatusCode:      c.Response().StatusCode(),
		Duration:        time.Since(started),
		CreatedAt:       started,
	}
}

func sanitizeBody(contentType string, body []byte) string {
	switch {
	case strings.Contains(contentType, "multipart/form-data"):
		return "[MULTIPART_FORM_DATA]"
	case strings.HasPrefix(contentType, "application/pdf"):
		return "[PDF_DOCUMENT]"
	case len(body) > maxLoggedBody && isLikelyBase64(body):
		return "[LARGE_BODY_WITH_POSSIBLE_FILE_CONTENT]"
	case len(body) > maxLoggedBody:
		return string(body[:maxLoggedBody]) + "...[TRUNCATED]"
	default:
		return string(append([]byte(nil), body...))
	}
}

func redactHeaders(headers string) string {
	return authHeaderPattern.ReplaceAllString(headers, "$1: [REDACTED]")
}

// isLikelyBase64 reports whether almost every byte is in the base64 alphabet
func isLikelyBase64(content []byte) bool {
	if len(content) < 100 {
		return false
	}

	base64Chars := 0
	for _, b := range content {
		if (b >= 'A' && b <= 'Z') ||
			(b >= 'a' && b <= 'z') ||
			(b >= '0' && b <= '9') ||
			b == '+' || b == '/' || b == '=' {
			base64Chars++
		}
	}

	return float64(base64Chars)/float64(len(content)) > 0.8
}
