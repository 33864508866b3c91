package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func collect(t *testing.T, input string, password PasswordFunc) (string, func() (string, string, string, string, string)) {
	t.Helper()
	var out bytes.Buffer
	c := New(strings.NewReader(input), &out, password)
	params, err := c.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String(), func() (string, string, string, string, string) {
		return params.Host, params.Port, params.Service, params.Username, params.Password
	}
}

func TestCollectAllFields(t *testing.T) {
	output, fields := collect(t, "db1.example.com\n1522\nORCL\nauditor\nsecret\n", nil)

	host, port, service, username, password := fields()
	if host != "db1.example.com" {
		t.Errorf("host = %q", host)
	}
	if port != "1522" {
		t.Errorf("port = %q", port)
	}
	if service != "ORCL" {
		t.Errorf("service = %q", service)
	}
	if username != "auditor" {
		t.Errorf("username = %q", username)
	}
	if password != "secret" {
		t.Errorf("password = %q", password)
	}

	expectedPrompts := []string{
		"Enter Oracle Host: ",
		"Enter Port [default: 1521]: ",
		"Enter Service Name/SID: ",
		"Enter Read-Only Username: ",
		"Enter password for auditor: ",
	}
	for _, p := range expectedPrompts {
		if !strings.Contains(output, p) {
			t.Errorf("expected prompt %q", p)
		}
	}
}

func TestCollectBlankPortDefaults(t *testing.T) {
	_, fields := collect(t, "db1\n\nORCL\nauditor\nsecret\n", nil)

	_, port, _, _, _ := fields()
	if port != "1521" {
		t.Errorf("expected default port 1521, got %q", port)
	}
}

func TestCollectPortKeptVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"nonstandard numeric", "2484"},
		{"non-numeric", "not-a-port"},
		{"whitespace", "  "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			input := "db1\n" + tt.entry + "\nORCL\nauditor\nsecret\n"
			_, fields := collect(t, input, nil)
			_, port, _, _, _ := fields()
			if port != tt.entry {
				t.Errorf("expected port %q kept verbatim, got %q", tt.entry, port)
			}
		})
	}
}

func TestCollectMaskedPassword(t *testing.T) {
	called := false
	masked := func() (string, error) {
		called = true
		return "hidden", nil
	}

	// No password line in the input: the masked reader supplies it.
	output, fields := collect(t, "db1\n\nORCL\nauditor\n", masked)

	_, _, _, _, password := fields()
	if !called {
		t.Fatal("expected masked password reader to be used")
	}
	if password != "hidden" {
		t.Errorf("password = %q", password)
	}
	if strings.Contains(output, "hidden") {
		t.Error("password must not be echoed to output")
	}
}

func TestCollectPromptOrder(t *testing.T) {
	output, _ := collect(t, "h\n\ns\nu\npw\n", nil)

	prompts := []string{
		"Enter Oracle Host: ",
		"Enter Port [default: 1521]: ",
		"Enter Service Name/SID: ",
		"Enter Read-Only Username: ",
		"Enter password for u: ",
	}

	last := -1
	for _, p := range prompts {
		idx := strings.Index(output, p)
		if idx == -1 {
			t.Fatalf("missing prompt %q", p)
		}
		if idx < last {
			t.Errorf("prompt %q out of order", p)
		}
		last = idx
	}
}

func TestCollectMissingFinalNewline(t *testing.T) {
	_, fields := collect(t, "db1\n\nORCL\nauditor\nsecret", nil)

	_, _, _, _, password := fields()
	if password != "secret" {
		t.Errorf("expected password read without trailing newline, got %q", password)
	}
}

func TestCollectEOF(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("db1\n"), &out, nil)

	_, err := c.Collect()
	if err == nil {
		t.Fatal("expected error when input ends early")
	}
}

func TestCollectCRLFInput(t *testing.T) {
	_, fields := collect(t, "db1\r\n\r\nORCL\r\nauditor\r\nsecret\r\n", nil)

	host, port, _, _, _ := fields()
	if host != "db1" {
		t.Errorf("expected CR stripped from host, got %q", host)
	}
	if port != "1521" {
		t.Errorf("expected CRLF-only port to default, got %q", port)
	}
}
