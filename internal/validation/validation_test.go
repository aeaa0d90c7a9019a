package validation

import (
	"strings"
	"testing"
)

func TestValidateShortID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid alphanumeric", "abc123", true},
		{"valid with hyphen", "my-zap", true},
		{"valid with underscore", "my_zap", true},
		{"empty string", "", false},
		{"too long", strings.Repeat("a", 101), false},
		{"contains slash", "my/zap", false},
		{"path traversal attempt", "../etc/passwd", false},
		{"url encoded", "my%20zap", false},
		{"unicode", "日本語", false},
		{"single char", "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateShortID(tt.id)
			if got != tt.want {
				t.Errorf("ValidateShortID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", true, ""},
		{"valid http", "http://example.com", true, ""},
		{"valid with path", "https://example.com/path", true, ""},
		{"valid with query", "https://example.com?foo=bar", true, ""},
		{"valid with port", "https://example.com:8080", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"data scheme", "data:text/html,<script>alert(1)</script>", false, "URL must use http:// or https:// scheme"},
		{"file scheme", "file:///etc/passwd", false, "URL must use http:// or https:// scheme"},
		{"ftp scheme", "ftp://example.com", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"relative url", "/path/to/page", false, "URL must use http:// or https:// scheme"},
		{"uppercase scheme", "HTTPS://example.com", false, "URL must use http:// or https:// scheme"},
		{"leading space", " https://example.com", false, "URL must use http:// or https:// scheme"},
		{"scheme only", "https://", false, "URL must have a valid host"},
		{"bad escape", "https://example.com/%zz", false, "Invalid URL format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple", "My QR", true},
		{"empty", "", false},
		{"whitespace only", "   \t", false},
		{"too long", strings.Repeat("x", 201), false},
		{"max length multibyte", strings.Repeat("é", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, _ := ValidateName(tt.input)
			if valid != tt.valid {
				t.Errorf("ValidateName(%q) = %v, want %v", tt.input, valid, tt.valid)
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		max     int
		valid   bool
		wantMsg string
	}{
		{"within limit", "hello", 10, true, ""},
		{"exactly at limit", "0123456789", 10, true, ""},
		{"over limit", "0123456789x", 10, false, "Text must be at most 10 characters"},
		{"counts runes not bytes", "ééééé", 5, true, ""},
		{"empty", "", 10, false, "Please enter some text to share"},
		{"blank", "\n\n ", 10, false, "Please enter some text to share"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateText(tt.text, tt.max)
			if valid != tt.valid || msg != tt.wantMsg {
				t.Errorf("ValidateText(%q, %d) = (%v, %q), want (%v, %q)", tt.text, tt.max, valid, msg, tt.valid, tt.wantMsg)
			}
		})
	}
}

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		in     string
		want   uint64
		wantOK bool
	}{
		{"1", 1, true},
		{"24", 24, true},
		{" 7 ", 7, true},
		{"0", 0, false},
		{"", 0, false},
		{"-3", 0, false},
		{"1.5", 0, false},
		{"1e3", 0, false},
		{"abc", 0, false},
		{"99999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePositiveInt(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePositiveInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsDigits(t *testing.T) {
	if !IsDigits("") || !IsDigits("0123") {
		t.Error("expected empty and digit strings to pass")
	}
	if IsDigits("12a") || IsDigits("-1") || IsDigits("1.0") {
		t.Error("expected non-digit strings to fail")
	}
}

func TestIsImageDataURI(t *testing.T) {
	if !IsImageDataURI("data:image/png;base64,AAAA") {
		t.Error("png data uri should be accepted")
	}
	if IsImageDataURI("data:text/html,<b>x</b>") || IsImageDataURI("https://x/y.png") {
		t.Error("non-image uris should be rejected")
	}
}
