package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/models"
)

// ResetTokenTTL is how long a password reset token stays valid
const ResetTokenTTL = 10 * time.Minute

const resetTokenBytes = 32

// DigestResetToken returns the stored form of a reset token
func DigestResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// IssueResetToken generates a new reset token, stores its digest and expiry
// on u and returns the plaintext. Any earlier token is overwritten.
func IssueResetToken(u *models.User, now time.Time, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = ResetTokenTTL
	}
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", apperr.Internal("generate reset token", err)
	}
	plaintext := hex.EncodeToString(buf)

	digest := DigestResetToken(plaintext)
	expires := now.Add(ttl)
	u.ResetTokenDigest = &digest
	u.ResetTokenExpiresAt = &expires
	return plaintext, nil
}

// VerifyResetToken checks presented against the digest stored on u
func VerifyResetToken(u *models.User, presented string, now time.Time) error {
	if u.ResetTokenDigest == nil || u.ResetTokenExpiresAt == nil || presented == "" {
		return apperr.ErrResetInvalid
	}
	got := DigestResetToken(presented)
	if subtle.ConstantTimeCompare([]byte(got), []byte(*u.ResetTokenDigest)) != 1 {
		return apperr.ErrResetInvalid
	}
	if !now.Before(*u.ResetTokenExpiresAt) {
		return apperr.ErrResetExpired
	}
	return nil
}

// ClearResetToken removes any pending reset token from u
func ClearResetToken(u *models.User) {
	u.ResetTokenDigest = nil
	u.ResetTokenExpiresAt = nil
}

// RecordPasswordChange stamps u with the time its password changed. The
// stamp is kept at the microsecond precision Postgres stores, and always
// moves forward so two changes in the same millisecond still differ.
func RecordPasswordChange(u *models.User, now time.Time) {
	changed := now.Truncate(time.Microsecond)
	if u.PasswordChangedAt != nil && changed.UnixMilli() <= u.PasswordChangedAt.UnixMilli() {
		changed = time.UnixMilli(u.PasswordChangedAt.UnixMilli() + 1).In(changed.Location())
	}
	u.PasswordChangedAt = &changed
}
