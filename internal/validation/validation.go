package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ShortIDPattern defines the valid short link id format: alphanumeric, hyphens, underscores.
var ShortIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// schemePattern matches the literal scheme prefix users must type.
var schemePattern = regexp.MustCompile(`^https?://`)

var digitsPattern = regexp.MustCompile(`^[0-9]*$`)

// ValidateShortID checks if a short link id matches the allowed pattern.
func ValidateShortID(id string) bool {
	if id == "" || len(id) > 100 {
		return false
	}
	return ShortIDPattern.MatchString(id)
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	if !schemePattern.MatchString(urlStr) {
		return false, "URL must use http:// or https:// scheme"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateName checks the user-chosen label of a zap.
func ValidateName(name string) (bool, string) {
	if strings.TrimSpace(name) == "" {
		return false, "Please enter a name for your QR code"
	}
	if utf8.RuneCountInString(name) > 200 {
		return false, "Name must be at most 200 characters"
	}
	return true, ""
}

// ValidateText checks free-text content against a length ceiling counted in characters.
func ValidateText(text string, maxLen int) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, "Please enter some text to share"
	}
	if utf8.RuneCountInString(text) > maxLen {
		return false, "Text must be at most " + strconv.Itoa(maxLen) + " characters"
	}
	return true, ""
}

// IsDigits reports whether s is empty or only ASCII digits.
// Used to ignore non-numeric keystrokes in count fields.
func IsDigits(s string) bool {
	return digitsPattern.MatchString(s)
}

// ParsePositiveInt parses a strictly positive whole number.
func ParsePositiveInt(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !IsDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// IsImageDataURI reports whether s is a base64 or plain data URI with an image media type.
func IsImageDataURI(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "data:image/")
}
