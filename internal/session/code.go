package session

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 5

	// 36^5 codes exist; long before that many are live the retry cap
	// trips and the connect is failed instead of spinning.
	maxAttempts = 100
)

var ErrCodesExhausted = errors.New("session: no free code after max attempts")

// GenerateCode returns a 5-character code over [A-Z0-9]. taken reports
// whether a candidate is already registered; collisions are re-sampled.
func GenerateCode(taken func(string) bool) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		if taken == nil || !taken(code) {
			return code, nil
		}
	}
	return "", ErrCodesExhausted
}

func randomCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
