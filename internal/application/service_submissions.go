package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

// CreateSubmission runs the full intake workflow: content validation, AI and
// stylometry scoring, the initial decision policy, and (on auto-approval) the
// certificate + trust side effects. The certificate write always precedes the
// trust update so a crash mid-sequence never leaves an orphaned trust change.
func (s *Service) CreateSubmission(ctx context.Context, principal domain.Principal, req SubmissionRequest) (SubmissionView, error) {
	if principal.Status == domain.UserStatusBanned || principal.Status == domain.UserStatusSuspended {
		return SubmissionView{}, domain.ErrForbidden
	}
	if err := domain.ValidateContent(req.Title, req.ContentText); err != nil {
		return SubmissionView{}, fmt.Errorf("%w: content must be at least %d characters", err, domain.MinContentLength)
	}

	// The scorer may block on the remote classifier; stylometry is pure.
	// There is no ordering dependency between the two.
	detectionCh := make(chan domain.Detection, 1)
	go func() { detectionCh <- s.scorer.Score(ctx, req.ContentText) }()
	style := domain.AnalyzeStyle(req.ContentText, s.jitter)
	detection := <-detectionCh

	trustLevel := domain.TrustLevel(principal.TrustScore)
	status := domain.InitialStatus(trustLevel, detection.HumanProbability)

	now := s.nowFn()
	sub := domain.Submission{
		SubmissionID: uuid.New(),
		CreatorID:    principal.UserID,
		CreatorName:  principal.Name,
		Title:        strings.TrimSpace(req.Title),
		ContentText:  req.ContentText,
		ContentURL:   strings.TrimSpace(req.ContentURL),
		Detection:    detection,
		Stylometry:   style,
		Status:       status,
		CreatedAt:    now,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return SubmissionView{}, err
	}
	s.enqueueEvent(ctx, "submission.created", sub.CreatorID.String(), map[string]any{
		"submission_id":     sub.SubmissionID,
		"status":            status,
		"human_probability": detection.HumanProbability,
	})

	if status == domain.SubmissionApproved {
		cert, err := s.issueCertificate(ctx, sub)
		if err != nil {
			return SubmissionView{}, err
		}
		if _, err := s.applyTrustOutcome(ctx, sub.CreatorID, domain.OutcomeApproved); err != nil {
			return SubmissionView{}, err
		}
		sub.CertificateID = &cert.CertificateID
		sub.VerificationID = cert.VerificationID
	}

	return submissionView(sub), nil
}

// ListSubmissions returns the caller's own submissions, or all submissions for
// reviewers and admins, newest first.
func (s *Service) ListSubmissions(ctx context.Context, principal domain.Principal) ([]SubmissionView, error) {
	filter := ports.SubmissionFilter{Limit: s.cfg.ListLimit}
	if !principal.IsReviewer() {
		creatorID := principal.UserID
		filter.CreatorID = &creatorID
	}
	items, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]SubmissionView, 0, len(items))
	for _, item := range items {
		views = append(views, submissionView(item))
	}
	return views, nil
}

// GetSubmission enforces ownership: creators only see their own work.
func (s *Service) GetSubmission(ctx context.Context, principal domain.Principal, id uuid.UUID) (SubmissionView, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return SubmissionView{}, err
	}
	if !principal.IsReviewer() && sub.CreatorID != principal.UserID {
		return SubmissionView{}, domain.ErrForbidden
	}
	return submissionView(sub), nil
}

// ModerationStats summarizes the review workload for the reviewer panel.
func (s *Service) ModerationStats(ctx context.Context, principal domain.Principal) (ModerationStats, error) {
	if !principal.IsReviewer() {
		return ModerationStats{}, domain.ErrForbidden
	}
	var stats ModerationStats
	var err error
	if stats.Pending, err = s.submissions.CountByStatus(ctx, domain.SubmissionPending); err != nil {
		return ModerationStats{}, err
	}
	if stats.Flagged, err = s.submissions.CountByStatus(ctx, domain.SubmissionFlagged); err != nil {
		return ModerationStats{}, err
	}
	if stats.Approved, err = s.submissions.CountByStatus(ctx, domain.SubmissionApproved); err != nil {
		return ModerationStats{}, err
	}
	if stats.Rejected, err = s.submissions.CountByStatus(ctx, domain.SubmissionRejected); err != nil {
		return ModerationStats{}, err
	}
	return stats, nil
}

// ModerationQueue lists reviewable submissions oldest-first with the creator's
// current trust joined in, so reviewers see reputation context inline.
func (s *Service) ModerationQueue(ctx context.Context, principal domain.Principal) ([]SubmissionView, error) {
	if !principal.IsReviewer() {
		return nil, domain.ErrForbidden
	}
	entries, err := s.submissions.Queue(ctx, s.cfg.QueueLimit)
	if err != nil {
		return nil, err
	}
	views := make([]SubmissionView, 0, len(entries))
	for _, entry := range entries {
		view := submissionView(entry.Submission)
		trust := entry.CreatorTrustScore
		view.CreatorTrust = &trust
		view.CreatorTrustTier = domain.TrustLevel(trust)
		views = append(views, view)
	}
	return views, nil
}

// ReviewSubmission applies a human decision to a reviewable submission and
// drives the same certificate/trust/notification paths as auto-approval.
func (s *Service) ReviewSubmission(ctx context.Context, principal domain.Principal, id uuid.UUID, req ReviewRequest) (ReviewResponse, error) {
	if !principal.IsReviewer() {
		return ReviewResponse{}, domain.ErrForbidden
	}
	decision := strings.TrimSpace(req.Decision)
	if !domain.IsValidDecision(decision) {
		return ReviewResponse{}, fmt.Errorf("%w: invalid decision", domain.ErrInvalidInput)
	}

	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !domain.IsReviewable(sub.Status) {
		return ReviewResponse{}, domain.ErrNotReviewable
	}

	now := s.nowFn()
	if err := s.submissions.ApplyReview(ctx, id, ports.ReviewUpdate{
		Status:      decision,
		ReviewNotes: req.Notes,
		ReviewerID:  principal.UserID,
		ReviewedAt:  now,
	}); err != nil {
		return ReviewResponse{}, err
	}
	sub.Status = decision
	sub.ReviewNotes = req.Notes
	s.enqueueEvent(ctx, "submission."+decision, sub.CreatorID.String(), map[string]any{
		"submission_id": sub.SubmissionID,
		"reviewer_id":   principal.UserID,
	})

	creator, creatorErr := s.users.GetByID(ctx, sub.CreatorID)

	switch decision {
	case domain.SubmissionApproved:
		cert, err := s.issueCertificate(ctx, sub)
		if err != nil {
			return ReviewResponse{}, err
		}
		if _, err := s.applyTrustOutcome(ctx, sub.CreatorID, domain.OutcomeApproved); err != nil {
			return ReviewResponse{}, err
		}
		if creatorErr == nil {
			s.enqueueNotification(ctx, creator, sub, domain.SubmissionApproved, req.Notes, cert.VerificationID)
		}
	case domain.SubmissionRejected:
		if _, err := s.applyTrustOutcome(ctx, sub.CreatorID, domain.OutcomeRejected); err != nil {
			return ReviewResponse{}, err
		}
		if creatorErr == nil {
			s.enqueueNotification(ctx, creator, sub, domain.SubmissionRejected, req.Notes, "")
		}
	case domain.SubmissionRevisionRequested:
		if creatorErr == nil {
			s.enqueueNotification(ctx, creator, sub, domain.SubmissionRevisionRequested, req.Notes, "")
		}
	}

	return ReviewResponse{
		Message:      fmt.Sprintf("Submission %s", decision),
		SubmissionID: id,
	}, nil
}

// applyTrustOutcome routes a submission outcome through the trust ledger.
// The store applies the clamped delta in one conditional update, so outcomes
// for the same creator serialize without lost updates.
func (s *Service) applyTrustOutcome(ctx context.Context, creatorID uuid.UUID, outcome string) (int, error) {
	delta := domain.TrustDelta(outcome)
	if delta == 0 {
		user, err := s.users.GetByID(ctx, creatorID)
		if err != nil {
			return 0, err
		}
		return user.TrustScore, nil
	}

	verifiedInc, rejectedInc := 0, 0
	switch outcome {
	case domain.OutcomeApproved:
		verifiedInc = 1
	case domain.OutcomeRejected:
		rejectedInc = 1
	}
	update, err := s.users.ApplyTrustDelta(ctx, creatorID, delta, verifiedInc, rejectedInc)
	if err != nil {
		return 0, err
	}
	s.enqueueEvent(ctx, "trust.updated", creatorID.String(), map[string]any{
		"creator_id": creatorID,
		"outcome":    outcome,
		"new_score":  update.NewScore,
	})
	return update.NewScore, nil
}

// enqueueNotification stores a notify.* outbox event for the worker to render
// and send. Delivery is best effort and never blocks or fails the request.
func (s *Service) enqueueNotification(ctx context.Context, creator domain.User, sub domain.Submission, kind, notes, verificationID string) {
	payload, err := json.Marshal(ports.NotificationPayload{
		RecipientEmail: creator.Email,
		RecipientName:  creator.Name,
		ContentTitle:   sub.Title,
		Kind:           kind,
		ReviewNotes:    notes,
		VerificationID: verificationID,
	})
	if err != nil {
		return
	}
	_ = s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "notify." + kind,
		PartitionKey: creator.UserID.String(),
		Payload:      payload,
		OccurredAt:   s.nowFn(),
	})
}

func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, body map[string]any) {
	if s.outbox == nil {
		return
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return
	}
	_ = s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      payload,
		OccurredAt:   s.nowFn(),
	})
}
