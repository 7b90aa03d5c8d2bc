package util

import "math/rand"

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandStr returns a short random identifier used for request IDs and
// export job handles. The top-level rand functions are locked, and
// request IDs are minted concurrently. Not cryptographically secure,
// see the token service for credential generation.
func RandStr(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}

	return string(b)
}
