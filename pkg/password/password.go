// Package password generates cryptographically strong random passwords.
//
// Every generated password contains at least one uppercase letter, one
// lowercase letter, one digit and one symbol, which puts a floor on entropy
// independent of length and rules out degenerate all-one-class outputs.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// DefaultLength is used when the caller does not specify one.
	DefaultLength = 16

	// MinLength is the shortest password Generate will produce. Below four
	// characters the composition guarantee is impossible anyway.
	MinLength = 8
)

const (
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower   = "abcdefghijklmnopqrstuvwxyz"
	digits  = "0123456789"
	symbols = "!@#$%^&*"
)

var classes = []string{upper, lower, digits, symbols}

const alphabet = upper + lower + digits + symbols

// Generate returns a random password of exactly length characters drawn
// from letters, digits and symbols, with at least one character from each
// class. Lengths below MinLength are rejected.
func Generate(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("password length must be at least %d (got %d)", MinLength, length)
	}

	out := make([]byte, length)

	// One pick per class first, the rest from the full alphabet.
	for i, class := range classes {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	for i := len(classes); i < length; i++ {
		c, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	// Fisher-Yates so the class-guaranteed characters don't sit at fixed
	// positions.
	for i := length - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

// MeetsPolicy reports whether a password contains at least one character
// from each of the four classes.
func MeetsPolicy(password string) bool {
	for _, class := range classes {
		if !containsAny(password, class) {
			return false
		}
	}
	return true
}

func containsAny(s, class string) bool {
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(class); j++ {
			if s[i] == class[j] {
				return true
			}
		}
	}
	return false
}

// pick returns one uniformly random character from charset.
func pick(charset string) (byte, error) {
	i, err := randInt(len(charset))
	if err != nil {
		return 0, err
	}
	return charset[i], nil
}

// randInt returns a uniform random int in [0, n) without modulo bias.
func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return int(v.Int64()), nil
}
