package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	appErr "github.com/lofoneh/usersvc/pkg/errors"
)

const (
	DefaultPBKDF2Iterations = 600000
	DefaultSaltLength       = 16

	saltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// PasswordHasher turns a plaintext password into its at-rest form and checks candidates against it.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// NewPasswordHasher selects a hasher by name ("pbkdf2" or "bcrypt").
func NewPasswordHasher(kind string, iterations, cost int) (PasswordHasher, error) {
	switch strings.ToLower(kind) {
	case "", "pbkdf2":
		return PBKDF2Hasher{Iterations: iterations}, nil
	case "bcrypt":
		return BcryptHasher{Cost: cost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", kind)
	}
}

// PBKDF2Hasher produces "pbkdf2:sha256:<iterations>$<salt>$<hex digest>",
// the encoding used by werkzeug's generate_password_hash.
type PBKDF2Hasher struct {
	Iterations int
	SaltLength int
}

func (h PBKDF2Hasher) iterations() int {
	if h.Iterations <= 0 {
		return DefaultPBKDF2Iterations
	}
	return h.Iterations
}

func (h PBKDF2Hasher) Hash(plain string) (string, error) {
	n := h.SaltLength
	if n <= 0 {
		n = DefaultSaltLength
	}
	salt, err := randomSalt(n)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "generate salt failed")
	}
	iter := h.iterations()
	digest := pbkdf2.Key([]byte(plain), []byte(salt), iter, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", iter, salt, hex.EncodeToString(digest)), nil
}

func (h PBKDF2Hasher) Verify(hash, plain string) bool {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method := strings.Split(parts[0], ":")
	if len(method) < 2 || method[0] != "pbkdf2" || method[1] != "sha256" {
		return false
	}
	iter := DefaultPBKDF2Iterations
	if len(method) == 3 {
		n, err := strconv.Atoi(method[2])
		if err != nil || n <= 0 {
			return false
		}
		iter = n
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(plain), []byte(parts[1]), iter, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// BcryptHasher wraps golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	ph, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", appErr.Wrap(err, appErr.CodeInvalid, "password must be at most 72 bytes")
		}
		return "", appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}
	return string(ph), nil
}

func (h BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func randomSalt(n int) (string, error) {
	max := big.NewInt(int64(len(saltChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = saltChars[idx.Int64()]
	}
	return string(b), nil
}
