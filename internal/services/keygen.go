package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	keyAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keySuffixLength = 6
	apiKeyBytes     = 32
)

// Generator produces key material. Tests substitute a deterministic one.
type Generator interface {
	APIKey() (string, error)
	LicenseKey(prefix string) (string, error)
}

type randomGenerator struct{}

func NewGenerator() Generator {
	return randomGenerator{}
}

// APIKey returns 32 random bytes hex-encoded.
func (randomGenerator) APIKey() (string, error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// LicenseKey returns "<prefix>-XXXXXX", or just the suffix when prefix is empty.
func (randomGenerator) LicenseKey(prefix string) (string, error) {
	suffix, err := randomString(keyAlphabet, keySuffixLength)
	if err != nil {
		return "", err
	}
	return FormatLicenseKey(prefix, suffix), nil
}

func FormatLicenseKey(prefix, suffix string) string {
	prefix = strings.TrimSpace(prefix)
	switch {
	case prefix == "":
		return suffix
	case strings.HasSuffix(prefix, "-"):
		return prefix + suffix
	default:
		return prefix + "-" + suffix
	}
}

// randomString draws n symbols uniformly from alphabet using rejection sampling.
func randomString(alphabet string, n int) (string, error) {
	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
