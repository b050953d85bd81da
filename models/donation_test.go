package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDonorOTPUsable(t *testing.T) {
	now := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)

	fresh := DonorOTP{Code: "123456", ExpiresAt: now.Add(5 * time.Minute)}
	assert.True(t, fresh.Usable(now))

	expired := DonorOTP{Code: "123456", ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.Usable(now))

	consumed := DonorOTP{Code: "123456", ExpiresAt: now.Add(5 * time.Minute), Consumed: true}
	assert.False(t, consumed.Usable(now))

	// Exactly at expiry the code is no longer valid.
	boundary := DonorOTP{Code: "123456", ExpiresAt: now}
	assert.False(t, boundary.Usable(now))
}
