package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"loyalty_backend/internal/feature/account/domain/entity"
)

// hashCost is the bcrypt cost. It is fixed at 10; tests lower it to MinCost.
var hashCost = 10

// dummyHash is compared against when there is no user or no stored hash,
// so a bcrypt comparison always runs and timing does not reveal whether the account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", credentialError("hash password", err)
	}
	if len(hashed) == 0 {
		return "", credentialError("hash password", fmt.Errorf("empty hash"))
	}
	return string(hashed), nil
}

// CheckPassword compares plain against hash. An empty hash never matches.
func CheckPassword(hash, plain string) bool {
	if strings.TrimSpace(hash) == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PreparePassword settles the credential of u before it is stored.
// Only a non-guest with a password that is non-empty after trimming gets a hash in u.Password;
// otherwise no credential is kept.
func PreparePassword(u *entity.User, plain string) error {
	if u.IsGuest() || strings.TrimSpace(plain) == "" {
		u.Password = ""
		return nil
	}
	hashed, err := HashPassword(plain)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// hashToken returns the SHA-256 of a session token, which is what gets stored.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
