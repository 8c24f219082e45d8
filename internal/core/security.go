// CaterEase API | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters. Stored in every hash so they can be raised
// later without invalidating existing credentials.
var defaultHashParams = hashParams{
	memory:  64 * 1024,
	passes:  1,
	lanes:   4,
	keyLen:  32,
	saltLen: 16,
}

type hashParams struct {
	memory  uint32
	passes  uint32
	lanes   uint8
	keyLen  uint32
	saltLen uint32
}

var errMalformedHash = errors.New("malformed password hash")

func HashPassword(password string) (string, error) {
	p := defaultHashParams

	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.passes, p.memory, p.lanes, p.keyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory,
		p.passes,
		p.lanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, want, err := parseHash(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, p.passes, p.memory, p.lanes, p.keyLen)

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// VerifyPasswordWithRehash additionally returns a fresh hash when the stored
// one was produced with stale cost parameters. An empty string means the
// stored hash is current.
func VerifyPasswordWithRehash(
	password, encoded string,
) (bool, string, error) {
	ok, err := VerifyPassword(password, encoded)
	if err != nil || !ok {
		return false, "", err
	}

	if staleParams(encoded) {
		if fresh, hashErr := HashPassword(password); hashErr == nil {
			return true, fresh, nil
		}
		// Rehash failure must not fail a successful login.
	}

	return true, "", nil
}

// decoyHash is verified in place of a real hash for unknown accounts, so a
// login attempt costs the same whether or not the username exists.
var decoyHash = func() string {
	h, err := HashPassword("caterease-decoy-credential")
	if err != nil {
		panic(fmt.Sprintf("security: decoy hash: %v", err))
	}
	return h
}()

// VerifyPasswordTimingSafe treats a nil or empty hash as a failed match
// while still burning a full argon2 verification.
func VerifyPasswordTimingSafe(
	password string,
	encoded *string,
) (bool, string, error) {
	subject := decoyHash
	if encoded != nil && *encoded != "" {
		subject = *encoded
	}

	ok, fresh, err := VerifyPasswordWithRehash(password, subject)

	if encoded == nil || *encoded == "" {
		return false, "", nil
	}

	return ok, fresh, err
}

func parseHash(encoded string) (hashParams, []byte, []byte, error) {
	var p hashParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("hash version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	_, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.passes, &p.lanes)
	if err != nil {
		return p, nil, nil, fmt.Errorf("hash params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode key: %w", err)
	}

	//nolint:gosec // G115: derived keys are 32 bytes, far below uint32 range
	p.keyLen = uint32(len(key))
	p.saltLen = defaultHashParams.saltLen

	return p, salt, key, nil
}

func staleParams(encoded string) bool {
	p, _, _, err := parseHash(encoded)
	if err != nil {
		return true
	}

	d := defaultHashParams
	return p.memory != d.memory ||
		p.passes != d.passes ||
		p.lanes != d.lanes ||
		p.keyLen != d.keyLen
}

func GenerateSecureToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// GenerateRefreshToken returns an opaque 256-bit token. Only its SHA-256
// digest is persisted.
func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	candidate := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}
