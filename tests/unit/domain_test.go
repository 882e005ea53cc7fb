package unit

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

func TestTrustLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		want  string
	}{
		{100, domain.TrustHigh},
		{80, domain.TrustHigh},
		{79, domain.TrustMedium},
		{50, domain.TrustMedium},
		{49, domain.TrustLow},
		{0, domain.TrustLow},
	}
	for _, tc := range cases {
		if got := domain.TrustLevel(tc.score); got != tc.want {
			t.Fatalf("TrustLevel(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestTrustDelta(t *testing.T) {
	t.Parallel()

	cases := []struct {
		outcome string
		want    int
	}{
		{domain.OutcomeApproved, 10},
		{domain.OutcomeRejected, -20},
		{domain.OutcomeFraud, -50},
		{domain.OutcomeIdentityVerified, 5},
		{"unknown", 0},
	}
	for _, tc := range cases {
		if got := domain.TrustDelta(tc.outcome); got != tc.want {
			t.Fatalf("TrustDelta(%q) = %d, want %d", tc.outcome, got, tc.want)
		}
	}
}

func TestClampTrust(t *testing.T) {
	t.Parallel()

	if got := domain.ClampTrust(-5); got != 0 {
		t.Fatalf("ClampTrust(-5) = %d, want 0", got)
	}
	if got := domain.ClampTrust(120); got != 100 {
		t.Fatalf("ClampTrust(120) = %d, want 100", got)
	}
	if got := domain.ClampTrust(55); got != 55 {
		t.Fatalf("ClampTrust(55) = %d, want 55", got)
	}
}

func TestValidateContent(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("content ", 10)
	if err := domain.ValidateContent("A title", long); err != nil {
		t.Fatalf("valid content rejected: %v", err)
	}
	if err := domain.ValidateContent("   ", long); err == nil {
		t.Fatalf("blank title accepted")
	}
	if err := domain.ValidateContent("A title", "too short"); err == nil {
		t.Fatalf("short content accepted")
	}
}

func TestIsReviewable(t *testing.T) {
	t.Parallel()

	reviewable := []string{domain.SubmissionPending, domain.SubmissionFlagged, domain.SubmissionReviewing}
	for _, status := range reviewable {
		if !domain.IsReviewable(status) {
			t.Fatalf("status %q should be reviewable", status)
		}
	}
	terminal := []string{domain.SubmissionApproved, domain.SubmissionRejected, domain.SubmissionRevisionRequested}
	for _, status := range terminal {
		if domain.IsReviewable(status) {
			t.Fatalf("status %q should not be reviewable", status)
		}
	}
}

func TestContentFingerprint(t *testing.T) {
	t.Parallel()

	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := domain.ContentFingerprint("hello"); got != want {
		t.Fatalf("ContentFingerprint = %q, want %q", got, want)
	}
}

func TestSignCertificate(t *testing.T) {
	t.Parallel()

	first := domain.SignCertificate("secret", "abc", "VH-2026-AAAAAA")
	second := domain.SignCertificate("secret", "abc", "VH-2026-AAAAAA")
	if first != second {
		t.Fatalf("signature not deterministic: %q vs %q", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("signature length = %d, want 64 hex chars", len(first))
	}
	if other := domain.SignCertificate("different", "abc", "VH-2026-AAAAAA"); other == first {
		t.Fatalf("signature did not change with secret")
	}
	if other := domain.SignCertificate("secret", "abc", "VH-2026-BBBBBB"); other == first {
		t.Fatalf("signature did not change with verification id")
	}
}

func TestNewVerificationIDFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^VH-2026-[0-9A-F]{6}$`)
	for i := 0; i < 20; i++ {
		vid, err := domain.NewVerificationID(now)
		if err != nil {
			t.Fatalf("NewVerificationID: %v", err)
		}
		if !pattern.MatchString(vid) {
			t.Fatalf("verification id %q does not match expected format", vid)
		}
	}
}

func TestAPIKeyPreview(t *testing.T) {
	t.Parallel()

	value, err := domain.NewAPIKeyValue()
	if err != nil {
		t.Fatalf("NewAPIKeyValue: %v", err)
	}
	if !strings.HasPrefix(value, "vhk_") {
		t.Fatalf("key value %q missing vhk_ prefix", value)
	}

	key := domain.APIKey{KeyValue: value}
	preview := key.Preview()
	if preview == value {
		t.Fatalf("long key not masked in preview")
	}
	if !strings.HasPrefix(preview, value[:16]) || !strings.HasSuffix(preview, value[len(value)-4:]) {
		t.Fatalf("preview %q does not keep prefix and tail", preview)
	}

	short := domain.APIKey{KeyValue: "vhk_short"}
	if short.Preview() != "vhk_short" {
		t.Fatalf("short key should pass through unmasked")
	}
}
