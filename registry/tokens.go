package registry

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/zeptools/tablet-core/sec"
)

// TokenIssuer signs print-job ids into scannable QR payloads.
// With a Cipher set the signed token is additionally wrapped into an
// opaque string, hiding the claim layout from the code itself.
type TokenIssuer struct {
	Issuer     string
	SigningKey []byte
	Cipher     *sec.XChaCha20Poly1305Cipher
	ValidFor   time.Duration
}

func (ti *TokenIssuer) Issue(jobID int64) (string, error) {
	token, err := sec.GenerateHS256SignedToken(ti.Issuer, strconv.FormatInt(jobID, 10), ti.SigningKey, ti.ValidFor)
	if err != nil {
		return "", err
	}
	if ti.Cipher == nil {
		return token, nil
	}
	return ti.Cipher.EncryptEncode([]byte(token))
}

func (ti *TokenIssuer) Verify(payload string) (int64, error) {
	token := payload
	if ti.Cipher != nil {
		plain, err := ti.Cipher.DecodeDecrypt(payload)
		if err != nil {
			return 0, fmt.Errorf("unwrapping token: %w", err)
		}
		token = string(plain)
	}
	parsed, err := sec.ParseHS256SignedToken(token, ti.SigningKey)
	if err != nil {
		return 0, err
	}
	claims, err := sec.GetClaimsFromParsedJWTToken(parsed)
	if err != nil {
		return 0, err
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}
	jobID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("token subject is not a job id")
	}
	return jobID, nil
}

// Tracker pairs the dedup service with QR payload handling.
// Without a token issuer the payload is the bare numeric job id.
type Tracker struct {
	*Service
	Tokens *TokenIssuer
}

func (t *Tracker) QRPayload(jobID int64) string {
	if t.Tokens != nil {
		payload, err := t.Tokens.Issue(jobID)
		if err == nil {
			return payload
		}
		log.Printf("[WARN] signing job %d token failed, falling back to numeric payload: %v\n", jobID, err)
	}
	return strconv.FormatInt(jobID, 10)
}

// ResolveScan maps a scanned QR payload back to a job id. Bare numeric
// payloads stay accepted alongside signed tokens, so codes printed
// before token signing was enabled still scan.
func (t *Tracker) ResolveScan(payload string) (int64, error) {
	if jobID, err := strconv.ParseInt(payload, 10, 64); err == nil {
		return jobID, nil
	}
	if t.Tokens == nil {
		return 0, errors.New("unrecognized job payload")
	}
	return t.Tokens.Verify(payload)
}
