package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword runs the plaintext through bcrypt at the configured cost.
// Hashing happens exactly once, at the point a credential is persisted;
// the plaintext never reaches the database.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
// The comparison is constant effort, so a miss reveals nothing about how
// close the guess was.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
