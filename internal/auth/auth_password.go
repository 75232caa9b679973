package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	autherrors "dayflow/internal/auth/errors"
	"dayflow/internal/identity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tempPasswordLength = 12

	upperChars   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars   = "abcdefghijkmnopqrstuvwxyz"
	digitChars   = "23456789"
	specialChars = "@#$%&*"
)

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateTempPassword returns a 12 character password with at least one
// upper, lower, digit and special character.
func GenerateTempPassword() (string, error) {
	all := upperChars + lowerChars + digitChars + specialChars
	buf := make([]byte, 0, tempPasswordLength)
	for _, set := range []string{upperChars, lowerChars, digitChars, specialChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < tempPasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	// Fisher-Yates so the guaranteed classes are not always in front.
	for i := len(buf) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := int(n.Int64())
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("generate password: %w", err)
	}
	return set[n.Int64()], nil
}

func ValidatePasswordStrength(p string) error {
	if len(p) < 8 {
		return autherrors.ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return autherrors.ErrWeakPassword
	}
	return nil
}

// NewProvisionedUser builds the login for a freshly created employee and
// returns the plain temporary password alongside it. The caller persists
// the user in its own transaction.
func NewProvisionedUser(employeeID uuid.UUID, loginID, email, role string) (*User, string, error) {
	role = identity.NormalizeRole(role)
	if !identity.ValidRole(role) {
		role = identity.RoleEmployee
	}

	plain, err := GenerateTempPassword()
	if err != nil {
		return nil, "", err
	}
	hash, err := HashPassword(plain)
	if err != nil {
		return nil, "", err
	}

	return &User{
		ID:                     uuid.New(),
		EmployeeID:             &employeeID,
		LoginID:                strings.ToUpper(loginID),
		Email:                  strings.ToLower(strings.TrimSpace(email)),
		Password:               hash,
		Role:                   role,
		PasswordChangeRequired: true,
		IsActive:               true,
	}, plain, nil
}
