package netw

import (
	"net/url"
	"testing"
)

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"greeting", "Hello World!", "Hello%20World%21"},
		{"arithmetic", "a+b=c&d", "a%2Bb%3Dc%26d"},
		{"unreserved untouched", "abcXYZ019-_.~", "abcXYZ019-_.~"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentEncodeString(tt.in)
			if got != tt.want {
				t.Errorf("PercentEncodeString(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercentEncodeRoundTrip(t *testing.T) {
	samples := []string{
		"Hello World!", "a+b=c&d", "", "unicode: héllo wörld 日本語",
		string([]byte{0x00, 0x01, 0xff, 0xfe, 'a'}),
	}

	for _, s := range samples {
		encoded := PercentEncodeString(s)
		decoded, err := url.QueryUnescape(encoded)
		if err != nil {
			t.Fatalf("decode(%q): %v", encoded, err)
		}
		if decoded != s {
			t.Errorf("decode(encode(%q)) = %q; want %q", s, decoded, s)
		}

		if l := len(encoded); l < len(s) || l > 3*len(s) {
			t.Errorf("len(encode(%q)) = %d; want in [%d, %d]", s, l, len(s), 3*len(s))
		}
	}
}

func TestPercentEncodeUnreservedBytesUntouched(t *testing.T) {
	for b := byte(0); ; b++ {
		if isUnreserved(b) {
			got := PercentEncodeString(string([]byte{b}))
			if got != string([]byte{b}) {
				t.Errorf("encode(%q) = %q; want unchanged", b, got)
			}
		}
		if b == 0xff {
			break
		}
	}
}
