package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/turtacn/credscore/internal/domain/models"
)

// HMACSigner signs decision records with HMAC-SHA256 over their audit event JSON.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner creates a signer. An empty secret returns nil so callers can skip signing.
func NewHMACSigner(secret string) *HMACSigner {
	if secret == "" {
		return nil
	}
	return &HMACSigner{secret: []byte(secret)}
}

// Sign calculates the base64 HMAC-SHA256 signature for a decision.
func (s *HMACSigner) Sign(record *models.DecisionRecord) (string, error) {
	eventBytes, err := json.Marshal(NewDecisionEvent(record))
	if err != nil {
		return "", err
	}

	h := hmac.New(sha256.New, s.secret)
	h.Write(eventBytes)
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether signature matches record.
func (s *HMACSigner) Verify(record *models.DecisionRecord, signature string) bool {
	expected, err := s.Sign(record)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}
