// Package pdf renders downloadable certificate documents. The layout mirrors
// the public verify page: identity fields, issuance metadata, and the full
// fingerprint and signature so the document is independently checkable.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

type Renderer struct {
	frontendURL string
}

func NewRenderer(frontendURL string) *Renderer {
	return &Renderer{frontendURL: frontendURL}
}

// Render produces the certificate PDF bytes. Revoked certificates render with
// the revocation banner and reason so a downloaded document can never pass as
// an active one.
func (r *Renderer) Render(cert application.CertificateView) ([]byte, error) {
	active := cert.Status == domain.CertificateActive

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 26)
	doc.SetTextColor(17, 24, 39)
	doc.CellFormat(0, 12, "TrustInk", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(100, 116, 139)
	doc.CellFormat(0, 7, "Verified Human Content Certification", "", 1, "C", false, 0, "")

	doc.SetDrawColor(17, 24, 39)
	doc.SetLineWidth(0.6)
	y := doc.GetY() + 2
	doc.Line(20, y, 190, y)
	doc.Ln(8)

	doc.SetFont("Helvetica", "B", 20)
	if active {
		doc.SetTextColor(16, 185, 129)
		doc.CellFormat(0, 10, "Certificate of Authenticity", "", 1, "C", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(100, 116, 139)
		doc.CellFormat(0, 6, "This certifies that the following content has been verified as human-written", "", 1, "C", false, 0, "")
	} else {
		doc.SetTextColor(239, 68, 68)
		doc.CellFormat(0, 10, "REVOKED CERTIFICATE", "", 1, "C", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(100, 116, 139)
		doc.CellFormat(0, 6, "This certificate has been revoked.", "", 1, "C", false, 0, "")
	}
	doc.Ln(6)

	rows := [][2]string{
		{"Content Title", cert.ContentTitle},
		{"Creator", cert.CreatorName},
		{"Verification ID", cert.VerificationID},
		{"Status", strings.ToUpper(cert.Status)},
		{"Issued", cert.IssuedAt.UTC().Format("January 02, 2006 at 15:04 UTC")},
	}
	if cert.RevocationReason != "" {
		rows = append(rows, [2]string{"Revocation Reason", cert.RevocationReason})
	}

	doc.SetDrawColor(226, 232, 240)
	doc.SetLineWidth(0.2)
	for _, row := range rows {
		doc.SetFont("Helvetica", "B", 9)
		doc.SetFillColor(241, 245, 249)
		doc.SetTextColor(17, 24, 39)
		doc.CellFormat(46, 9, row[0], "1", 0, "L", true, 0, "")
		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(30, 41, 59)
		doc.CellFormat(124, 9, row[1], "1", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	r.monoBlock(doc, "SHA-256 CONTENT HASH", cert.ContentHash)
	r.monoBlock(doc, "HMAC-SHA256 SIGNATURE", cert.Signature)

	doc.Ln(4)
	y = doc.GetY()
	doc.Line(20, y, 190, y)
	doc.Ln(4)
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(100, 116, 139)
	doc.CellFormat(0, 5, fmt.Sprintf("Verify at: %s/verify/%s", r.frontendURL, cert.VerificationID), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) monoBlock(doc *fpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 8)
	doc.SetTextColor(100, 116, 139)
	doc.CellFormat(0, 5, label, "", 1, "L", false, 0, "")
	doc.SetFont("Courier", "", 8)
	doc.SetTextColor(30, 41, 59)
	doc.MultiCell(0, 4, value, "", "L", false)
	doc.Ln(2)
}
