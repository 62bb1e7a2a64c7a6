package login

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// newState returns an unguessable anti-CSRF nonce: a keyed BLAKE2b-256 of the
// current time and a random uuid, keyed by the client address.
func newState(remoteAddr string, now time.Time) (string, error) {
	key := []byte(remoteAddr)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		return "", err
	}
	nonce, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	h.Write([]byte(strconv.FormatInt(now.UnixNano(), 10)))
	h.Write(nonce[:])
	return hex.EncodeToString(h.Sum(nil)), nil
}
