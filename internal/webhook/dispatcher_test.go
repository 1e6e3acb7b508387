package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignIsDeterministic(t *testing.T) {
	payload := []byte(`{"event":"experiment.completed"}`)

	a := Sign(payload, "1700000000", "topsecret")
	b := Sign(payload, "1700000000", "topsecret")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "sha256="))

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write([]byte("1700000000."))
	mac.Write(payload)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), a)
}

func TestSignVariesWithInputs(t *testing.T) {
	payload := []byte(`{"event":"experiment.failed"}`)
	base := Sign(payload, "1700000000", "topsecret")

	assert.NotEqual(t, base, Sign(payload, "1700000001", "topsecret"))
	assert.NotEqual(t, base, Sign(payload, "1700000000", "othersecret"))
	assert.NotEqual(t, base, Sign([]byte(`{}`), "1700000000", "topsecret"))
}
