package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"room-booking/database"
	employeeModel "room-booking/models/employee"
	"room-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// IssueToken signs an HS256 access token for the employee.
func IssueToken(e *employeeModel.Employee) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"sub":   e.ID,
		"email": e.Email,
		"role":  e.Role,
		"name":  e.FullName(),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CurrentEmployee resolves the authenticated employee from the JWT claims
// stored by the auth middleware.
func CurrentEmployee(c *fiber.Ctx) (*employeeModel.Employee, error) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return nil, errors.New("missing authentication claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, errors.New("employee id not found in token")
	}

	var e employeeModel.Employee
	if err := database.DB.First(&e, uint(sub)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("employee not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !e.IsActive {
		return nil, errors.New("employee account is deactivated")
	}

	return &e, nil
}

// ParseRFC3339 parses a timestamp in RFC3339 format.
func ParseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected RFC3339", s)
	}
	return t, nil
}

// DayWindow returns the half-open [midnight, next midnight) window for a
// date given as "2006-01-02".
func DayWindow(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	start := now.With(day).BeginningOfDay()
	return start, start.AddDate(0, 0, 1), nil
}

var authHeaderPattern = regexp.MustCompile(`(?i)(authorization:\s*)\S[^\r\n]*`)

// CreateSanitizedLogEntry builds an audit log entry for the current request.
// Passwords in the request body and the Authorization header value are
// redacted before the entry ever reaches the log channel.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	// Copy everything; fasthttp reuses its buffers after the handler returns.
	requestHeaders := string(append([]byte(nil), c.Request().Header.Header()...))
	responseHeaders := string(append([]byte(nil), c.Response().Header.Header()...))
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	return types.LogEntry{
		Method:          string(append([]byte(nil), c.Method()...)),
		URL:             string(append([]byte(nil), c.OriginalURL()...)),
		RequestBody:     sanitizeRequestBody(c.Body()),
		ResponseBody:    responseBody,
		RequestHeaders:  authHeaderPattern.ReplaceAllString(requestHeaders, "${1}[REDACTED]"),
		ResponseHeaders: responseHeaders,
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}

// sanitizeRequestBody masks password fields in JSON request bodies. Bodies
// that are not JSON objects are stored as-is.
func sanitizeRequestBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(append([]byte(nil), body...))
	}

	for key := range payload {
		if key == "password" || key == "current_password" || key == "new_password" {
			payload[key] = "[REDACTED]"
		}
	}

	sanitized, err := json.Marshal(payload)
	if err != nil {
		return string(append([]byte(nil), body...))
	}
	return string(sanitized)
}
