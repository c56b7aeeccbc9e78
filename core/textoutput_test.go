package sonic

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleTextOutputPrefixesAssistant(t *testing.T) {
	var out bytes.Buffer
	NewConsoleTextOutput(&out).Display("Hi there")

	line := out.String()
	if !strings.Contains(line, "Assistant:") || !strings.HasSuffix(line, "Hi there\n") {
		t.Fatalf("unexpected output %q", line)
	}
}

func TestConsoleTextOutputWrapsLongText(t *testing.T) {
	var out bytes.Buffer
	NewConsoleTextOutput(&out, WithTextWidth(30)).Display(strings.Repeat("word ", 20))

	if got := strings.Count(out.String(), "\n"); got < 2 {
		t.Fatalf("expected wrapped output over several lines, got %q", out.String())
	}
}

func TestConsoleTextOutputWithoutWrapping(t *testing.T) {
	var out bytes.Buffer
	text := strings.Repeat("word ", 40)
	NewConsoleTextOutput(&out, WithTextWidth(0)).Display(text)

	if got := strings.Count(out.String(), "\n"); got != 1 {
		t.Fatalf("expected a single line, got %q", out.String())
	}
}
