package usecase

import (
	"regexp"
	"testing"
)

func TestNewCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code := NewCode()
		if !re.MatchString(code) {
			t.Fatalf("unexpected code format %q", code)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestLinks(t *testing.T) {
	if got := GiftLink("https://gift.example/", "abc"); got != "https://gift.example/gift/abc" {
		t.Fatalf("unexpected gift link %q", got)
	}
	if got := RedeemLink("https://gift.example", "abc"); got != "https://gift.example/redeem/abc" {
		t.Fatalf("unexpected redeem link %q", got)
	}
	if got := RegisterLink("http://localhost:8080"); got != "http://localhost:8080/register" {
		t.Fatalf("unexpected register link %q", got)
	}
}

func TestExtractCode(t *testing.T) {
	cases := map[string]string{
		"abc":                                 "abc",
		"  abc  ":                             "abc",
		"https://gift.example/redeem/abc":     "abc",
		"https://gift.example/redeem/abc?x=1": "abc",
		"https://gift.example/redeem/abc/":    "abc",
		"/redeem/a%20b":                       "a b",
		"":                                    "",
	}
	for in, want := range cases {
		if got := ExtractCode(in); got != want {
			t.Errorf("ExtractCode(%q) = %q, want %q", in, got, want)
		}
	}
}
