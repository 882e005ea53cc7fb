package unit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

const testContent = "This is a sufficiently long piece of writing that easily clears the minimum content length required for scoring."

type fakeScorer struct {
	detection domain.Detection
}

func (f *fakeScorer) Score(_ context.Context, _ string) domain.Detection {
	return f.detection
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeSigner encodes the user id directly; good enough to round-trip identity
// through Authenticate without real crypto.
type fakeSigner struct{}

func (fakeSigner) Sign(claims ports.AuthClaims) (string, error) {
	return claims.UserID.String(), nil
}

func (fakeSigner) ParseAndValidate(raw string) (ports.AuthClaims, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return ports.AuthClaims{}, errors.New("bad token")
	}
	return ports.AuthClaims{UserID: id}, nil
}

type fixture struct {
	repos   *memory.Repositories
	scorer  *fakeScorer
	service *application.Service
}

func newFixture() *fixture {
	repos := memory.NewRepositories()
	scorer := &fakeScorer{detection: domain.Detection{
		HumanProbability: 0.9,
		AIProbability:    0.1,
		Confidence:       domain.ConfidenceHigh,
		Source:           domain.SourceMock,
	}}
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			HMACSecret:       "unit-test-secret",
			MaxActiveAPIKeys: 2,
		},
		Users:        repos.Users,
		Submissions:  repos.Submissions,
		Certificates: repos.Certificates,
		APIKeys:      repos.APIKeys,
		Outbox:       repos.Outbox,
		Scorer:       scorer,
		Hasher:       fakeHasher{},
		TokenSigner:  fakeSigner{},
		Jitter:       domain.ZeroJitter,
		NowFn: func() time.Time {
			return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
		},
	})
	return &fixture{repos: repos, scorer: scorer, service: svc}
}

func (f *fixture) register(t *testing.T, name, email, role string) domain.Principal {
	t.Helper()
	resp, err := f.service.Register(context.Background(), application.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return f.principal(t, resp.Token)
}

func (f *fixture) principal(t *testing.T, token string) domain.Principal {
	t.Helper()
	principal, err := f.service.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return principal
}

func (f *fixture) refresh(t *testing.T, principal domain.Principal) domain.Principal {
	return f.principal(t, principal.UserID.String())
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	resp, err := f.service.Register(ctx, application.RegisterRequest{
		Name:     "Alex Writer",
		Email:    "Alex@Example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Email != "alex@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}
	if resp.User.Role != domain.RoleCreator {
		t.Fatalf("default role = %q, want creator", resp.User.Role)
	}
	if resp.User.TrustScore != domain.DefaultTrustScore {
		t.Fatalf("trust score = %d, want %d", resp.User.TrustScore, domain.DefaultTrustScore)
	}

	if _, err := f.service.Register(ctx, application.RegisterRequest{
		Name: "Dup", Email: "alex@example.com", Password: "password123",
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email error = %v, want conflict", err)
	}

	login, err := f.service.Login(ctx, application.LoginRequest{Email: "alex@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Token == "" {
		t.Fatalf("login returned empty token")
	}

	if _, err := f.service.Login(ctx, application.LoginRequest{Email: "alex@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("bad password error = %v, want invalid credentials", err)
	}
}

func TestLoginBannedAccount(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	admin := f.register(t, "Admin", "admin@example.com", domain.RoleAdmin)
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	if _, err := f.service.UpdateUserStatus(ctx, admin, creator.UserID, application.UserStatusRequest{Status: domain.UserStatusBanned}); err != nil {
		t.Fatalf("ban user: %v", err)
	}
	if _, err := f.service.Login(ctx, application.LoginRequest{Email: "creator@example.com", Password: "password123"}); !errors.Is(err, domain.ErrAccountBanned) {
		t.Fatalf("banned login error = %v, want account banned", err)
	}
}

func TestSubmissionAutoApproval(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	admin := f.register(t, "Admin", "admin@example.com", domain.RoleAdmin)
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	if _, err := f.service.UpdateUserTrust(ctx, admin, creator.UserID, application.TrustScoreRequest{TrustScore: 85}); err != nil {
		t.Fatalf("set trust: %v", err)
	}
	creator = f.refresh(t, creator)

	view, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{
		Title:       "Morning essay",
		ContentText: testContent,
	})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if view.Status != domain.SubmissionApproved {
		t.Fatalf("status = %q, want approved", view.Status)
	}
	if view.CertificateID == nil || view.VerificationID == "" {
		t.Fatalf("auto-approved submission missing certificate linkage")
	}

	// Approval pays the trust reward immediately.
	me, err := f.service.Me(ctx, creator)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.TrustScore != 95 {
		t.Fatalf("trust after auto-approval = %d, want 95", me.TrustScore)
	}
	if me.VerifiedPosts != 1 {
		t.Fatalf("verified posts = %d, want 1", me.VerifiedPosts)
	}

	result, err := f.service.VerifyCertificate(ctx, view.VerificationID)
	if err != nil {
		t.Fatalf("verify certificate: %v", err)
	}
	if !result.Valid || result.Status != domain.CertificateActive {
		t.Fatalf("verification result = %+v, want valid active", result)
	}
	if result.ContentHash != domain.ContentFingerprint(testContent) {
		t.Fatalf("content hash mismatch")
	}
	if result.Signature != domain.SignCertificate("unit-test-secret", result.ContentHash, view.VerificationID) {
		t.Fatalf("signature mismatch")
	}
}

func TestSubmissionFlaggedAndPending(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	f.scorer.detection = domain.Detection{HumanProbability: 0.3, AIProbability: 0.7, Confidence: domain.ConfidenceHigh, Source: domain.SourceMock}
	flagged, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: "Suspect", ContentText: testContent})
	if err != nil {
		t.Fatalf("create flagged submission: %v", err)
	}
	if flagged.Status != domain.SubmissionFlagged {
		t.Fatalf("status = %q, want flagged", flagged.Status)
	}

	f.scorer.detection = domain.Detection{HumanProbability: 0.6, AIProbability: 0.4, Confidence: domain.ConfidenceMedium, Source: domain.SourceMock}
	pending, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: "Borderline", ContentText: testContent})
	if err != nil {
		t.Fatalf("create pending submission: %v", err)
	}
	if pending.Status != domain.SubmissionPending {
		t.Fatalf("status = %q, want pending", pending.Status)
	}
}

func TestSubmissionValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	if _, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: "Short", ContentText: "tiny"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("short content error = %v, want invalid input", err)
	}

	creator.Status = domain.UserStatusSuspended
	if _, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: "Blocked", ContentText: testContent}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("suspended submit error = %v, want forbidden", err)
	}
}

func TestReviewDecisions(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	reviewer := f.register(t, "Reviewer", "reviewer@example.com", domain.RoleReviewer)
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	f.scorer.detection = domain.Detection{HumanProbability: 0.6, AIProbability: 0.4, Confidence: domain.ConfidenceMedium, Source: domain.SourceMock}

	submit := func(title string) application.SubmissionView {
		view, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: title, ContentText: testContent})
		if err != nil {
			t.Fatalf("create submission %q: %v", title, err)
		}
		return view
	}

	approved := submit("Approve me")
	if _, err := f.service.ReviewSubmission(ctx, reviewer, approved.SubmissionID, application.ReviewRequest{Decision: domain.SubmissionApproved, Notes: "good work"}); err != nil {
		t.Fatalf("approve review: %v", err)
	}
	got, err := f.service.GetSubmission(ctx, reviewer, approved.SubmissionID)
	if err != nil {
		t.Fatalf("get reviewed submission: %v", err)
	}
	if got.Status != domain.SubmissionApproved || got.VerificationID == "" {
		t.Fatalf("approved submission = %+v, want approved with certificate", got)
	}

	me, _ := f.service.Me(ctx, f.refresh(t, creator))
	if me.TrustScore != 60 || me.VerifiedPosts != 1 {
		t.Fatalf("after approval trust=%d verified=%d, want 60/1", me.TrustScore, me.VerifiedPosts)
	}

	rejected := submit("Reject me")
	if _, err := f.service.ReviewSubmission(ctx, reviewer, rejected.SubmissionID, application.ReviewRequest{Decision: domain.SubmissionRejected, Notes: "fails policy"}); err != nil {
		t.Fatalf("reject review: %v", err)
	}
	me, _ = f.service.Me(ctx, f.refresh(t, creator))
	if me.TrustScore != 40 || me.RejectedPosts != 1 {
		t.Fatalf("after rejection trust=%d rejected=%d, want 40/1", me.TrustScore, me.RejectedPosts)
	}

	// Terminal submissions cannot be re-reviewed.
	if _, err := f.service.ReviewSubmission(ctx, reviewer, approved.SubmissionID, application.ReviewRequest{Decision: domain.SubmissionRejected}); !errors.Is(err, domain.ErrNotReviewable) {
		t.Fatalf("re-review error = %v, want not reviewable", err)
	}

	other := submit("Bad decision")
	if _, err := f.service.ReviewSubmission(ctx, reviewer, other.SubmissionID, application.ReviewRequest{Decision: "maybe"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("invalid decision error = %v, want invalid input", err)
	}

	// Creators cannot review at all.
	if _, err := f.service.ReviewSubmission(ctx, creator, other.SubmissionID, application.ReviewRequest{Decision: domain.SubmissionApproved}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("creator review error = %v, want forbidden", err)
	}
}

func TestRevocationCascade(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	reviewer := f.register(t, "Reviewer", "reviewer@example.com", domain.RoleReviewer)
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	sub, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: "Soon revoked", ContentText: testContent})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if _, err := f.service.ReviewSubmission(ctx, reviewer, sub.SubmissionID, application.ReviewRequest{Decision: domain.SubmissionApproved}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	approved, err := f.service.GetSubmission(ctx, reviewer, sub.SubmissionID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}

	if _, err := f.service.RevokeCertificate(ctx, creator, *approved.CertificateID, application.RevocationRequest{Reason: "fraud"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("creator revoke error = %v, want forbidden", err)
	}
	if _, err := f.service.RevokeCertificate(ctx, reviewer, *approved.CertificateID, application.RevocationRequest{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("missing reason error = %v, want invalid input", err)
	}

	revoked, err := f.service.RevokeCertificate(ctx, reviewer, *approved.CertificateID, application.RevocationRequest{Reason: "plagiarized content"})
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked.Status != domain.CertificateRevoked || revoked.RevokedAt == nil {
		t.Fatalf("revoked view = %+v, want revoked status with timestamp", revoked)
	}

	// Revocation flags the submission and charges the fraud penalty.
	after, err := f.service.GetSubmission(ctx, reviewer, sub.SubmissionID)
	if err != nil {
		t.Fatalf("get submission after revoke: %v", err)
	}
	if after.Status != domain.SubmissionFlagged {
		t.Fatalf("submission status after revoke = %q, want flagged", after.Status)
	}
	me, _ := f.service.Me(ctx, f.refresh(t, creator))
	if me.TrustScore != 10 {
		t.Fatalf("trust after fraud penalty = %d, want 10", me.TrustScore)
	}

	result, err := f.service.VerifyCertificate(ctx, approved.VerificationID)
	if err != nil {
		t.Fatalf("verify revoked: %v", err)
	}
	if result.Valid {
		t.Fatalf("revoked certificate still verifies as valid")
	}
	if result.RevocationReason == nil || *result.RevocationReason != "plagiarized content" {
		t.Fatalf("revocation reason not surfaced: %+v", result)
	}

	if _, err := f.service.RevokeCertificate(ctx, reviewer, *approved.CertificateID, application.RevocationRequest{Reason: "again"}); !errors.Is(err, domain.ErrAlreadyRevoked) {
		t.Fatalf("double revoke error = %v, want already revoked", err)
	}
}

func TestTrustClampAtZero(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	reviewer := f.register(t, "Reviewer", "reviewer@example.com", domain.RoleReviewer)
	admin := f.register(t, "Admin", "admin@example.com", domain.RoleAdmin)
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	if _, err := f.service.UpdateUserTrust(ctx, admin, creator.UserID, application.TrustScoreRequest{TrustScore: 5}); err != nil {
		t.Fatalf("set trust: %v", err)
	}
	creator = f.refresh(t, creator)

	f.scorer.detection = domain.Detection{HumanProbability: 0.6, AIProbability: 0.4, Confidence: domain.ConfidenceMedium, Source: domain.SourceMock}
	sub, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: "Doomed", ContentText: testContent})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if _, err := f.service.ReviewSubmission(ctx, reviewer, sub.SubmissionID, application.ReviewRequest{Decision: domain.SubmissionRejected}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	me, _ := f.service.Me(ctx, f.refresh(t, creator))
	if me.TrustScore != 0 {
		t.Fatalf("trust = %d, want clamp at 0", me.TrustScore)
	}
}

func TestAPIKeyLifecycleAndThirdPartyVerify(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	admin := f.register(t, "Admin", "admin@example.com", domain.RoleAdmin)
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	if _, err := f.service.UpdateUserTrust(ctx, admin, creator.UserID, application.TrustScoreRequest{TrustScore: 90}); err != nil {
		t.Fatalf("set trust: %v", err)
	}
	creator = f.refresh(t, creator)
	sub, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: "Certified", ContentText: testContent})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	key, err := f.service.CreateAPIKey(ctx, creator, application.APIKeyRequest{Name: "integration"})
	if err != nil {
		t.Fatalf("create api key: %v", err)
	}
	if !strings.HasPrefix(key.KeyValue, "vhk_") {
		t.Fatalf("key value %q missing prefix", key.KeyValue)
	}

	// The fixture caps active keys at two.
	if _, err := f.service.CreateAPIKey(ctx, creator, application.APIKeyRequest{Name: "second"}); err != nil {
		t.Fatalf("create second key: %v", err)
	}
	if _, err := f.service.CreateAPIKey(ctx, creator, application.APIKeyRequest{Name: "third"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("key cap error = %v, want conflict", err)
	}

	listed, err := f.service.ListAPIKeys(ctx, creator)
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	for _, k := range listed {
		if k.KeyValue != "" {
			t.Fatalf("listing leaked full key value")
		}
		if k.KeyPreview == "" {
			t.Fatalf("listing missing masked preview")
		}
	}

	verification, err := f.service.ThirdPartyVerify(ctx, key.KeyValue, sub.VerificationID)
	if err != nil {
		t.Fatalf("third party verify: %v", err)
	}
	if !verification.Valid || verification.IssuedBy != "TrustInk" || verification.APIVersion != "v1" {
		t.Fatalf("third party verification = %+v", verification)
	}

	if _, err := f.service.ThirdPartyVerify(ctx, "", sub.VerificationID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("missing key error = %v, want unauthorized", err)
	}
	if _, err := f.service.ThirdPartyVerify(ctx, "vhk_bogus", sub.VerificationID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("bad key error = %v, want forbidden", err)
	}

	if err := f.service.DeleteAPIKey(ctx, creator, key.KeyID); err != nil {
		t.Fatalf("delete key: %v", err)
	}
	if _, err := f.service.ThirdPartyVerify(ctx, key.KeyValue, sub.VerificationID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("deactivated key error = %v, want forbidden", err)
	}
}

func TestAdminGuards(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	admin := f.register(t, "Admin", "admin@example.com", domain.RoleAdmin)
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	if _, err := f.service.ListUsers(ctx, creator); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("creator list users error = %v, want forbidden", err)
	}
	if _, err := f.service.UpdateUserStatus(ctx, admin, admin.UserID, application.UserStatusRequest{Status: domain.UserStatusBanned}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("self status change error = %v, want invalid input", err)
	}
	if _, err := f.service.UpdateUserTrust(ctx, admin, creator.UserID, application.TrustScoreRequest{TrustScore: 150}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("out-of-range trust error = %v, want invalid input", err)
	}

	verified, err := f.service.VerifyIdentity(ctx, admin, creator.UserID)
	if err != nil {
		t.Fatalf("verify identity: %v", err)
	}
	if !verified.IdentityVerified {
		t.Fatalf("identity not marked verified")
	}
	if verified.TrustScore != domain.DefaultTrustScore+5 {
		t.Fatalf("trust after identity bonus = %d, want %d", verified.TrustScore, domain.DefaultTrustScore+5)
	}

	// Re-verifying is a no-op, not a second bonus.
	again, err := f.service.VerifyIdentity(ctx, admin, creator.UserID)
	if err != nil {
		t.Fatalf("re-verify identity: %v", err)
	}
	if again.TrustScore != verified.TrustScore {
		t.Fatalf("identity bonus applied twice: %d", again.TrustScore)
	}
}

func TestRegistryAndStats(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	admin := f.register(t, "Admin", "admin@example.com", domain.RoleAdmin)
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	if _, err := f.service.UpdateUserTrust(ctx, admin, creator.UserID, application.TrustScoreRequest{TrustScore: 90}); err != nil {
		t.Fatalf("set trust: %v", err)
	}
	creator = f.refresh(t, creator)

	for i := 0; i < 3; i++ {
		if _, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{
			Title:       fmt.Sprintf("Essay %d", i),
			ContentText: testContent,
		}); err != nil {
			t.Fatalf("create submission %d: %v", i, err)
		}
	}

	page, err := f.service.Registry(ctx, application.RegistryQuery{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if page.Total != 3 || len(page.Certificates) != 2 || page.Pages != 2 {
		t.Fatalf("registry page = total %d / %d entries / %d pages, want 3/2/2", page.Total, len(page.Certificates), page.Pages)
	}

	search, err := f.service.Registry(ctx, application.RegistryQuery{Search: "Essay 1", Page: 1})
	if err != nil {
		t.Fatalf("registry search: %v", err)
	}
	if search.Total != 1 {
		t.Fatalf("search total = %d, want 1", search.Total)
	}

	stats, err := f.service.RegistryStats(ctx)
	if err != nil {
		t.Fatalf("registry stats: %v", err)
	}
	if stats.TotalCertificates != 3 || stats.Revoked != 0 {
		t.Fatalf("registry stats = %+v", stats)
	}

	dash, err := f.service.DashboardStats(ctx, creator)
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}
	if dash.Total != 3 || dash.Approved != 3 {
		t.Fatalf("dashboard stats = %+v, want 3 total / 3 approved", dash)
	}

	profile, err := f.service.CreatorProfile(ctx, creator.UserID)
	if err != nil {
		t.Fatalf("creator profile: %v", err)
	}
	if profile.CertificateCount != 3 {
		t.Fatalf("profile certificate count = %d, want 3", profile.CertificateCount)
	}
}

func TestSeedIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	first, err := f.service.Seed(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(first.Accounts) != 3 {
		t.Fatalf("seed created %d accounts, want 3", len(first.Accounts))
	}

	login, err := f.service.Login(ctx, application.LoginRequest{Email: "admin@vhccs.com", Password: "admin123"})
	if err != nil {
		t.Fatalf("login seeded admin: %v", err)
	}
	if login.User.Role != domain.RoleAdmin || login.User.TrustScore != 100 {
		t.Fatalf("seeded admin = %+v", login.User)
	}

	second, err := f.service.Seed(ctx)
	if err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	if second.Message != "Already seeded" {
		t.Fatalf("re-seed message = %q, want Already seeded", second.Message)
	}
}

func TestOutboxRecordsEvents(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", domain.RoleCreator)

	if _, err := f.service.CreateSubmission(ctx, creator, application.SubmissionRequest{Title: "Evented", ContentText: testContent}); err != nil {
		t.Fatalf("create submission: %v", err)
	}

	events := f.repos.Outbox.Events()
	found := false
	for _, evt := range events {
		if evt == "submission.created" {
			found = true
		}
	}
	if !found {
		t.Fatalf("submission.created not enqueued; events = %v", events)
	}
}
