package service

import (
	"strings"

	"github.com/ignatzorin/iyaya-backend/internal/models"
)

// Проблемы, которые находит проверка подтверждений оплаты.
const (
	IssueMissingStoragePath = "Missing storage path"
	IssueMissingPublicURL   = "Missing public URL"
	IssueUnknownMimeType    = "Unknown MIME type"
	IssueNoProofUploaded    = "No payment proof uploaded"

	unexpectedMimePrefix = "Unexpected MIME type: "
)

// AssessProof проверяет метаданные подтверждения и отмечает подозрительные.
func AssessProof(proof models.PaymentProof) models.PaymentProof {
	issues := make([]string, 0, 2)

	if isBlank(proof.StoragePath) {
		issues = append(issues, IssueMissingStoragePath)
	}
	if isBlank(proof.PublicURL) {
		issues = append(issues, IssueMissingPublicURL)
	}
	switch {
	case isBlank(proof.MimeType):
		issues = append(issues, IssueUnknownMimeType)
	case !strings.HasPrefix(*proof.MimeType, "image/"):
		issues = append(issues, unexpectedMimePrefix+*proof.MimeType)
	}

	proof.Issues = issues
	proof.Suspicious = len(issues) > 0
	return proof
}

// NormalizePayment прикладывает проверенные подтверждения к оплате и вычисляет итог проверки.
func NormalizePayment(payment models.Payment, proofs []models.PaymentProof) models.Payment {
	assessed := make([]models.PaymentProof, 0, len(proofs))
	issues := make([]string, 0)
	seen := make(map[string]struct{})
	suspicious := false

	for _, proof := range proofs {
		p := AssessProof(proof)
		assessed = append(assessed, p)
		suspicious = suspicious || p.Suspicious
		for _, issue := range p.Issues {
			if _, ok := seen[issue]; ok {
				continue
			}
			seen[issue] = struct{}{}
			issues = append(issues, issue)
		}
	}
	if len(proofs) == 0 {
		issues = append(issues, IssueNoProofUploaded)
	}

	payment.Proofs = assessed
	payment.ProofIssues = issues
	payment.ProofStatus = models.ProofStatusOK
	if len(issues) > 0 || suspicious {
		payment.ProofStatus = models.ProofStatusNeedsReview
	}
	return payment
}

func isBlank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
