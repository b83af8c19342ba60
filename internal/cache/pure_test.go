package cache

import (
	"strings"
	"testing"
	"time"
)

func TestHashIP_Deterministic(t *testing.T) {
	t.Parallel()

	ip := "192.168.1.100"

	hash1 := hashIP(ip)
	hash2 := hashIP(ip)

	if hash1 != hash2 {
		t.Error("Same IP should produce same hash")
	}
}

func TestHashIP_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv4 localhost", "127.0.0.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := hashIP(tt.ip)
			// hashIP uses first 8 bytes of SHA256, encoded as 16 hex chars
			if len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
		})
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip1  string
		ip2  string
	}{
		{"different IPv4", "192.168.1.1", "192.168.1.2"},
		{"different last octet", "10.0.0.1", "10.0.0.2"},
		{"IPv4 vs IPv6", "127.0.0.1", "::1"},
		{"public vs private", "8.8.8.8", "192.168.1.1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash1 := hashIP(tt.ip1)
			hash2 := hashIP(tt.ip2)

			if hash1 == hash2 {
				t.Errorf("Different IPs should produce different hashes: %q and %q both produced %s", tt.ip1, tt.ip2, hash1)
			}
		})
	}
}

func TestRateLimitKey_ScopedByBucket(t *testing.T) {
	t.Parallel()

	login := Bucket{Name: "auth"}.Key("10.0.0.1")
	other := Bucket{Name: "search"}.Key("10.0.0.1")

	if login == other {
		t.Errorf("buckets should not share keys: %s", login)
	}
	if !strings.HasPrefix(login, "ratelimit:ip:auth:") {
		t.Errorf("Key() = %s, want ratelimit:ip:auth: prefix", login)
	}
	if strings.Contains(login, "10.0.0.1") {
		t.Errorf("Key() leaks raw IP: %s", login)
	}
}

func TestBucket_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bucket  Bucket
		wantErr bool
	}{
		{"valid", Bucket{Name: "auth", Rate: 5, Burst: 10}, false},
		{"fractional rate", Bucket{Name: "auth", Rate: 0.5, Burst: 1}, false},
		{"no name", Bucket{Rate: 5, Burst: 10}, true},
		{"zero rate", Bucket{Name: "auth", Burst: 10}, true},
		{"zero burst", Bucket{Name: "auth", Rate: 5}, true},
		{"negative rate", Bucket{Name: "auth", Rate: -1, Burst: 10}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.bucket.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBucket_Timing(t *testing.T) {
	t.Parallel()

	b := Bucket{Name: "auth", Rate: 5, Burst: 10}
	if got := b.TokenInterval(); got != 200*time.Millisecond {
		t.Errorf("TokenInterval() = %s, want 200ms", got)
	}
	if got := b.RefillTime(); got != 2*time.Second {
		t.Errorf("RefillTime() = %s, want 2s", got)
	}

	slow := Bucket{Name: "auth", Rate: 0.5, Burst: 3}
	if got := slow.RefillTime(); got != 6*time.Second {
		t.Errorf("RefillTime() = %s, want 6s", got)
	}
}

func TestPlaceKey(t *testing.T) {
	t.Parallel()

	if got := placeKey("ChIJ123"); got != "place:details:ChIJ123" {
		t.Errorf("placeKey() = %s", got)
	}
}
