package sanitize

import (
	"strings"
	"testing"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"script tag", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"double quotes", `say "hi"`, "say &quot;hi&quot;"},
		{"single quotes", "it's", "it&#039;s"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"already escaped is escaped again", "&lt;", "&amp;lt;"},
		{"attribute breakout", `" onerror="alert(1)`, "&quot; onerror=&quot;alert(1)"},
		{"img payload", `<img src=x onerror='alert(1)'>`, "&lt;img src=x onerror=&#039;alert(1)&#039;&gt;"},
		{"unicode untouched", "héllo ✓", "héllo ✓"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeHTML(tt.in); got != tt.want {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeHTMLLeavesNoMetacharacters(t *testing.T) {
	adversarial := `<>"'&<script>"'</script>&&`
	got := EscapeHTML(adversarial)
	if strings.ContainsAny(got, `<>"'`) {
		t.Errorf("EscapeHTML left metacharacters in %q", got)
	}
}
