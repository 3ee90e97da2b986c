package minimod

import (
	"strings"
	"testing"
)

func validOpts(t *testing.T) Options {
	t.Helper()
	return Options{
		Environment: Live,
		APIKey:      strings.Repeat("a", 32),
		RootPath:    t.TempDir(),
	}
}

func TestNewRejectsBadAPIKeyLength(t *testing.T) {
	opts := validOpts(t)
	opts.APIKey = "tooshort"
	if _, err := New(opts); err == nil {
		t.Fatalf("expected error for API key of wrong length")
	}
}

func TestNewRejectsNonAlphanumericAPIKey(t *testing.T) {
	opts := validOpts(t)
	opts.APIKey = strings.Repeat("a", 31) + "!"
	if _, err := New(opts); err == nil {
		t.Fatalf("expected error for non-alphanumeric API key")
	}
}

func TestNewRejectsEmptyRootPath(t *testing.T) {
	opts := validOpts(t)
	opts.RootPath = ""
	if _, err := New(opts); err == nil {
		t.Fatalf("expected error for empty root path")
	}
}

func TestNewStripsTrailingSeparator(t *testing.T) {
	opts := validOpts(t)
	opts.RootPath = opts.RootPath + "/"

	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if strings.HasSuffix(c.rootPath, "/") {
		t.Errorf("rootPath = %q; trailing separator should be stripped", c.rootPath)
	}
}

func TestNewAcceptsValidKey(t *testing.T) {
	opts := validOpts(t)
	if _, err := New(opts); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestIsRateLimitedNegativeWhenNotLimited(t *testing.T) {
	c, err := New(validOpts(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.IsRateLimited() >= 0 {
		t.Errorf("IsRateLimited() = %d; want negative when not limited", c.IsRateLimited())
	}
}

func TestApiKeyURLScenario(t *testing.T) {
	c, err := New(Options{Environment: Live, APIKey: "K00000000000000000000000000000AA", RootPath: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := c.apiKeyURL("/games", "")
	want := "https://api.mod.io/v1/games?api_key=K00000000000000000000000000000AA&"
	if got != want {
		t.Errorf("apiKeyURL = %q; want %q", got, want)
	}
}

func TestTestEnvironmentBaseURL(t *testing.T) {
	opts := validOpts(t)
	opts.Environment = Test
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.baseURL != "https://api.test.mod.io/v1" {
		t.Errorf("baseURL = %q; want test endpoint", c.baseURL)
	}
}
