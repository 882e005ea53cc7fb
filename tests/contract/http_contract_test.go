package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	httpadapter "github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/http"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/pdf"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/security"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

const longContent = "This contract-test submission text is comfortably longer than the fifty character minimum enforced before scoring."

type fixedScorer struct {
	detection domain.Detection
}

func (f *fixedScorer) Score(_ context.Context, _ string) domain.Detection {
	return f.detection
}

func newServer(t *testing.T) (*httptest.Server, *fixedScorer) {
	t.Helper()

	repos := memory.NewRepositories()
	signer, err := security.NewJWTSigner("contract-test-jwt-secret")
	if err != nil {
		t.Fatalf("jwt signer: %v", err)
	}
	scorer := &fixedScorer{detection: domain.Detection{
		HumanProbability: 0.9,
		AIProbability:    0.1,
		Confidence:       domain.ConfidenceHigh,
		Source:           domain.SourceMock,
	}}
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			HMACSecret: "contract-test-hmac-secret",
		},
		Users:        repos.Users,
		Submissions:  repos.Submissions,
		Certificates: repos.Certificates,
		APIKeys:      repos.APIKeys,
		Outbox:       repos.Outbox,
		Scorer:       scorer,
		Hasher:       security.NewBcryptHasher(bcrypt.MinCost),
		TokenSigner:  signer,
		Jitter:       domain.ZeroJitter,
	})
	handler := httpadapter.NewHandler(svc, pdf.NewRenderer("http://localhost:3000"))
	srv := httptest.NewServer(httpadapter.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, scorer
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp, decoded
}

func register(t *testing.T, srv *httptest.Server, name, email, role string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123", "role": role,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d body %v", email, resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s returned no token", email)
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", path, resp.StatusCode)
		}
	}
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	token := register(t, srv, "Alex", "alex@example.com", "")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	if body["email"] != "alex@example.com" {
		t.Fatalf("me body = %v", body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"name": "Dup", "email": "alex@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", resp.StatusCode)
	}
	if body["status"] != "error" || body["code"] != "CONFLICT" {
		t.Fatalf("error envelope = %v", body)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated me status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "alex@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", resp.StatusCode)
	}
}

func TestSubmissionAndPublicVerifyShapes(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)

	// Seed gives a trust-100 admin whose submissions auto-approve.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/seed", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed status = %d", resp.StatusCode)
	}
	resp, login := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "admin@vhccs.com", "password": "admin123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seeded login status = %d body %v", resp.StatusCode, login)
	}
	token := login["token"].(string)

	resp, sub := doJSON(t, http.MethodPost, srv.URL+"/api/submissions", token, map[string]string{
		"title": "Contract essay", "content_text": longContent,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create submission status = %d body %v", resp.StatusCode, sub)
	}
	for _, key := range []string{"id", "status", "ai_human_probability", "ai_confidence", "stylometry_features", "verification_id"} {
		if _, ok := sub[key]; !ok {
			t.Fatalf("submission body missing %q: %v", key, sub)
		}
	}
	if sub["status"] != "approved" {
		t.Fatalf("submission status = %v, want approved", sub["status"])
	}
	vid := sub["verification_id"].(string)

	resp, verify := doJSON(t, http.MethodGet, srv.URL+"/api/verify/"+vid, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status = %d", resp.StatusCode)
	}
	for _, key := range []string{"valid", "verification_id", "status", "creator_name", "content_title", "content_hash", "timestamp", "revoked_at", "revocation_reason", "signature"} {
		if _, ok := verify[key]; !ok {
			t.Fatalf("verify body missing %q: %v", key, verify)
		}
	}
	if verify["valid"] != true || verify["revoked_at"] != nil || verify["revocation_reason"] != nil {
		t.Fatalf("active verify body = %v", verify)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/verify/VH-2026-FFFFFF", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown vid status = %d", resp.StatusCode)
	}

	resp, registry := doJSON(t, http.MethodGet, srv.URL+"/api/registry?page=1&limit=10", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("registry status = %d", resp.StatusCode)
	}
	for _, key := range []string{"certificates", "total", "page", "pages"} {
		if _, ok := registry[key]; !ok {
			t.Fatalf("registry body missing %q: %v", key, registry)
		}
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/registry/stats", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("registry stats status = %d", resp.StatusCode)
	}
}

func TestThirdPartyVerifyContract(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/seed", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed status = %d", resp.StatusCode)
	}
	_, login := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "admin@vhccs.com", "password": "admin123",
	})
	token := login["token"].(string)

	_, sub := doJSON(t, http.MethodPost, srv.URL+"/api/submissions", token, map[string]string{
		"title": "Keyed verify", "content_text": longContent,
	})
	vid := sub["verification_id"].(string)

	resp, keyBody := doJSON(t, http.MethodPost, srv.URL+"/api/apikeys", token, map[string]string{"name": "partner"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create api key status = %d", resp.StatusCode)
	}
	keyValue := keyBody["key_value"].(string)
	if !strings.HasPrefix(keyValue, "vhk_") {
		t.Fatalf("key value = %q", keyValue)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/verify/"+vid, "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing key status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/verify/"+vid, nil)
	req.Header.Set("X-API-Key", "vhk_bogus")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("bad key request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("invalid key status = %d", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/verify/"+vid, nil)
	req.Header.Set("X-API-Key", keyValue)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("keyed request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("keyed verify status = %d", resp.StatusCode)
	}
	var verified map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&verified); err != nil {
		t.Fatalf("decode keyed verify: %v", err)
	}
	if verified["issued_by"] != "TrustInk" || verified["api_version"] != "v1" {
		t.Fatalf("keyed verify body = %v", verified)
	}

	// Query-parameter keys work too.
	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/verify/%s?api_key=%s", srv.URL, vid, keyValue), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("query key verify status = %d", resp.StatusCode)
	}
}

func TestRoleGuards(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	creatorToken := register(t, srv, "Creator", "creator@example.com", "creator")

	for _, path := range []string{"/api/moderation/stats", "/api/moderation/queue", "/api/admin/users", "/api/admin/stats"} {
		resp, body := doJSON(t, http.MethodGet, srv.URL+path, creatorToken, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s status for creator = %d body %v", path, resp.StatusCode, body)
		}
	}
}

func TestCertificatePDFDownload(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/seed", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed status = %d", resp.StatusCode)
	}
	_, login := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "admin@vhccs.com", "password": "admin123",
	})
	token := login["token"].(string)
	_, sub := doJSON(t, http.MethodPost, srv.URL+"/api/submissions", token, map[string]string{
		"title": "Printable", "content_text": longContent,
	})
	certID := sub["certificate_id"].(string)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/certificates/"+certID+"/pdf", nil)
	pdfResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("pdf request: %v", err)
	}
	defer pdfResp.Body.Close()
	if pdfResp.StatusCode != http.StatusOK {
		t.Fatalf("pdf status = %d", pdfResp.StatusCode)
	}
	if ct := pdfResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("pdf content type = %q", ct)
	}
	if cd := pdfResp.Header.Get("Content-Disposition"); !strings.Contains(cd, "TrustInk-") {
		t.Fatalf("pdf content disposition = %q", cd)
	}
}
