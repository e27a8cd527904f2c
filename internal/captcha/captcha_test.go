package captcha

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	s := NewStore(10*time.Minute, 100)

	id, code := s.Issue()
	require.NotEmpty(t, id)
	require.Len(t, code, 6)

	assert.True(t, s.Verify(id, code))
	// Comparison is case-sensitive and exact.
	assert.False(t, s.Verify(id, code+"x"))
	assert.False(t, s.Verify("unknown", code))

	// Verification does not consume the challenge.
	assert.True(t, s.Verify(id, code))
}

func TestVerifyExpired(t *testing.T) {
	s := NewStore(10*time.Minute, 100)

	now := time.Now()
	s.now = func() time.Time { return now }
	id, code := s.Issue()

	now = now.Add(10*time.Minute + time.Second)
	assert.False(t, s.Verify(id, code))
	// The expired entry is dropped on lookup.
	assert.Equal(t, 0, s.Len())
}

func TestCapacityBound(t *testing.T) {
	s := NewStore(10*time.Minute, 5)

	now := time.Now()
	s.now = func() time.Time { return now }

	for i := 0; i < 20; i++ {
		now = now.Add(time.Millisecond)
		s.Issue()
	}
	assert.LessOrEqual(t, s.Len(), 5)
}

func TestExpiredEvictedOnIssue(t *testing.T) {
	s := NewStore(time.Minute, 100)

	now := time.Now()
	s.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		now = now.Add(time.Millisecond)
		s.Issue()
	}
	require.Equal(t, 10, s.Len())

	now = now.Add(2 * time.Minute)
	s.Issue()
	assert.Equal(t, 1, s.Len())
}
