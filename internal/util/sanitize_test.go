package util

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "country code", input: "ARG", want: "arg"},
		{name: "dotted series code", input: "NY.GDP.PCAP.KD", want: "nygdppcapkd"},
		{name: "spaces collapse", input: "GDP  per   capita", want: "gdp-per-capita"},
		{name: "mixed punctuation", input: "A_b(c)/d", want: "abcd"},
		{name: "hyphen runs", input: "a--b---c", want: "a-b-c"},
		{name: "leading trailing", input: " -x- ", want: "x"},
		{name: "empty", input: "", want: ""},
		{name: "only punctuation", input: "...", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.input); got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeProperties(t *testing.T) {
	inputs := []string{
		"ARG", "NY.GDP.PCAP.KD", "SP.POP.TOTL", "  spaced  out  ",
		"ÜÑÎÇØDÉ", "a-b_c.d e", "1960 [YR1960]", strings.Repeat("-.", 50),
	}
	for _, in := range inputs {
		got := Sanitize(in)
		for _, r := range got {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				t.Fatalf("Sanitize(%q) = %q contains %q", in, got, r)
			}
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Fatalf("Sanitize(%q) = %q has edge hyphen", in, got)
		}
		if again := Sanitize(got); again != got {
			t.Fatalf("not idempotent: Sanitize(%q) = %q, then %q", in, got, again)
		}
	}
}

func TestPairFileName(t *testing.T) {
	got := PairFileName("ARG", "NY.GDP.PCAP.KD")
	want := "arg-nygdppcapkd.csv"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got != PairFileName("ARG", "NY.GDP.PCAP.KD") {
		t.Fatal("filename not deterministic")
	}
}
