package helpers

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketSigner(t *testing.T) {
	signer := NewTicketSigner("test-secret")
	eventID := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		payload := signer.Payload("CODE123", eventID)

		code, gotEventID, err := signer.Verify(payload)
		require.NoError(t, err)
		assert.Equal(t, "CODE123", code)
		assert.Equal(t, eventID, gotEventID)
	})

	t.Run("rejects a tampered code", func(t *testing.T) {
		payload := signer.Payload("CODE123", eventID)
		tampered := strings.Replace(payload, "CODE123", "CODE999", 1)

		_, _, err := signer.Verify(tampered)
		assert.Error(t, err)
	})

	t.Run("rejects a payload signed with another secret", func(t *testing.T) {
		other := NewTicketSigner("other-secret")
		payload := other.Payload("CODE123", eventID)

		_, _, err := signer.Verify(payload)
		assert.Error(t, err)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		for _, payload := range []string{
			"",
			"garbage",
			"ticket:CODE123;event:not-a-uuid;signature:abc",
			"ticket:CODE123;signature:abc",
		} {
			_, _, err := signer.Verify(payload)
			assert.Error(t, err, payload)
		}
	})
}
