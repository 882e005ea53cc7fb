package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

func (s *Service) ListUsers(ctx context.Context, principal domain.Principal) ([]UserView, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users, err := s.users.List(ctx, s.cfg.ListLimit)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	return views, nil
}

// UpdateUserStatus suspends, bans, or reinstates an account. Admins cannot
// change their own status, so the last admin can never lock itself out.
func (s *Service) UpdateUserStatus(ctx context.Context, principal domain.Principal, userID uuid.UUID, req UserStatusRequest) (StatusUpdateResponse, error) {
	if !principal.IsAdmin() {
		return StatusUpdateResponse{}, domain.ErrForbidden
	}
	if !domain.IsValidUserStatus(req.Status) {
		return StatusUpdateResponse{}, fmt.Errorf("%w: invalid status", domain.ErrInvalidInput)
	}
	if userID == principal.UserID {
		return StatusUpdateResponse{}, fmt.Errorf("%w: cannot change your own account status", domain.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return StatusUpdateResponse{}, err
	}
	if err := s.users.UpdateStatus(ctx, userID, req.Status); err != nil {
		return StatusUpdateResponse{}, err
	}
	return StatusUpdateResponse{
		Message: fmt.Sprintf("User status updated to %s", req.Status),
		UserID:  userID,
	}, nil
}

// UpdateUserTrust sets an absolute trust score, bypassing the outcome deltas.
func (s *Service) UpdateUserTrust(ctx context.Context, principal domain.Principal, userID uuid.UUID, req TrustScoreRequest) (TrustUpdateResponse, error) {
	if !principal.IsAdmin() {
		return TrustUpdateResponse{}, domain.ErrForbidden
	}
	if req.TrustScore < 0 || req.TrustScore > 100 {
		return TrustUpdateResponse{}, fmt.Errorf("%w: trust score must be 0-100", domain.ErrInvalidInput)
	}
	if err := s.users.SetTrustScore(ctx, userID, req.TrustScore); err != nil {
		return TrustUpdateResponse{}, err
	}
	return TrustUpdateResponse{
		Message:    "Trust score updated",
		TrustScore: req.TrustScore,
		TrustLevel: domain.TrustLevel(req.TrustScore),
	}, nil
}

// VerifyIdentity marks an account identity-verified and applies the one-time
// trust bonus. Re-verifying an already verified account is a no-op.
func (s *Service) VerifyIdentity(ctx context.Context, principal domain.Principal, userID uuid.UUID) (UserView, error) {
	if !principal.IsAdmin() {
		return UserView{}, domain.ErrForbidden
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	if user.IdentityVerified {
		return userView(user), nil
	}
	if err := s.users.SetIdentityVerified(ctx, userID, true); err != nil {
		return UserView{}, err
	}
	if _, err := s.applyTrustOutcome(ctx, userID, domain.OutcomeIdentityVerified); err != nil {
		return UserView{}, err
	}
	user, err = s.users.GetByID(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	return userView(user), nil
}

func (s *Service) AdminStats(ctx context.Context, principal domain.Principal) (AdminStats, error) {
	if !principal.IsAdmin() {
		return AdminStats{}, domain.ErrForbidden
	}
	var stats AdminStats
	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return AdminStats{}, err
	}
	if stats.Creators, err = s.users.CountByRole(ctx, domain.RoleCreator); err != nil {
		return AdminStats{}, err
	}
	if stats.Reviewers, err = s.users.CountByRole(ctx, domain.RoleReviewer); err != nil {
		return AdminStats{}, err
	}
	if stats.Suspended, err = s.users.CountByStatus(ctx, domain.UserStatusSuspended); err != nil {
		return AdminStats{}, err
	}
	if stats.Banned, err = s.users.CountByStatus(ctx, domain.UserStatusBanned); err != nil {
		return AdminStats{}, err
	}
	if stats.TotalSubmissions, err = s.submissions.CountByStatus(ctx); err != nil {
		return AdminStats{}, err
	}
	if stats.TotalCertificates, err = s.certificates.CountByStatus(ctx, domain.CertificateActive); err != nil {
		return AdminStats{}, err
	}
	if stats.PendingReview, err = s.submissions.CountByStatus(ctx, domain.SubmissionPending); err != nil {
		return AdminStats{}, err
	}
	if stats.APIKeysActive, err = s.apiKeys.CountActive(ctx); err != nil {
		return AdminStats{}, err
	}
	return stats, nil
}

// DashboardStats summarizes the caller's own submission pipeline. Pending
// groups revision_requested in, matching what the creator dashboard surfaces
// as "needs action or waiting".
func (s *Service) DashboardStats(ctx context.Context, principal domain.Principal) (DashboardStats, error) {
	stats := DashboardStats{
		TrustScore: principal.TrustScore,
		TrustLevel: domain.TrustLevel(principal.TrustScore),
	}
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err == nil {
		stats.TrustScore = user.TrustScore
		stats.TrustLevel = domain.TrustLevel(user.TrustScore)
		stats.VerifiedPosts = user.VerifiedPosts
		stats.RejectedPosts = user.RejectedPosts
	}

	uid := principal.UserID
	if stats.Total, err = s.submissions.CountByCreator(ctx, uid); err != nil {
		return DashboardStats{}, err
	}
	if stats.Approved, err = s.submissions.CountByCreator(ctx, uid, domain.SubmissionApproved); err != nil {
		return DashboardStats{}, err
	}
	if stats.Pending, err = s.submissions.CountByCreator(ctx, uid, domain.SubmissionPending, domain.SubmissionRevisionRequested); err != nil {
		return DashboardStats{}, err
	}
	if stats.Rejected, err = s.submissions.CountByCreator(ctx, uid, domain.SubmissionRejected); err != nil {
		return DashboardStats{}, err
	}
	if stats.Flagged, err = s.submissions.CountByCreator(ctx, uid, domain.SubmissionFlagged); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// CreatorProfile is the public portfolio view: identity plus active
// certificates. No authentication required.
func (s *Service) CreatorProfile(ctx context.Context, creatorID uuid.UUID) (CreatorProfile, error) {
	user, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		return CreatorProfile{}, err
	}
	certs, err := s.certificates.ListActiveByCreator(ctx, creatorID, registryPageLimit)
	if err != nil {
		return CreatorProfile{}, err
	}
	views := make([]CertificateView, 0, len(certs))
	for _, cert := range certs {
		views = append(views, certificateView(cert))
	}
	return CreatorProfile{
		Creator:          userView(user),
		Certificates:     views,
		CertificateCount: len(views),
	}, nil
}

// Seed provisions the demo accounts on an empty store. Idempotent: any
// existing user short-circuits it.
func (s *Service) Seed(ctx context.Context) (SeedResponse, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return SeedResponse{}, err
	}
	if count > 0 {
		return SeedResponse{Message: "Already seeded"}, nil
	}

	accounts := []struct {
		name     string
		email    string
		password string
		role     string
		trust    int
		verified bool
	}{
		{"Admin User", "admin@vhccs.com", "admin123", domain.RoleAdmin, 100, true},
		{"Reviewer Jane", "reviewer@vhccs.com", "review123", domain.RoleReviewer, 85, true},
		{"Creator Alice", "creator@vhccs.com", "creator123", domain.RoleCreator, domain.DefaultTrustScore, false},
	}

	now := s.nowFn()
	out := make([]SeedAccount, 0, len(accounts))
	for _, acct := range accounts {
		hash, err := s.hasher.Hash(acct.password)
		if err != nil {
			return SeedResponse{}, err
		}
		user, err := s.users.Create(ctx, ports.CreateUserParams{
			Name:         acct.name,
			Email:        acct.email,
			PasswordHash: hash,
			Role:         acct.role,
			TrustScore:   acct.trust,
			CreatedAt:    now,
		})
		if err != nil {
			return SeedResponse{}, err
		}
		if acct.verified {
			if err := s.users.SetIdentityVerified(ctx, user.UserID, true); err != nil {
				return SeedResponse{}, err
			}
		}
		out = append(out, SeedAccount{Email: acct.email, Password: acct.password, Role: acct.role})
	}
	return SeedResponse{Message: "Demo accounts created", Accounts: out}, nil
}
