package polite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitCoolDownFirstCallIsImmediate(t *testing.T) {
	cd := NewCoolDown()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, cd.AwaitCoolDown(ctx, 0))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestAwaitCoolDownUsesRobotsCrawlDelayWhenInRange(t *testing.T) {
	assert.Equal(t, 2*time.Second, clampDelay(2*time.Second))
}

func TestAwaitCoolDownFallsBackToBaseCoolDownOutsideRange(t *testing.T) {
	assert.Equal(t, baseCoolDown, clampDelay(0))
	assert.Equal(t, baseCoolDown, clampDelay(-time.Second))
	assert.Equal(t, baseCoolDown, clampDelay(maxCoolDown))
	assert.Equal(t, baseCoolDown, clampDelay(10*time.Second))
}

func TestFinishedRequestAddsFractionalCreditOnTimeout(t *testing.T) {
	cd := NewCoolDown()
	cd.FinishedRequest(true, 5)
	assert.InDelta(t, 0.2, cd.timeoutCount, 1e-9)

	cd.FinishedRequest(true, 5)
	assert.InDelta(t, 0.4, cd.timeoutCount, 1e-9)
}

func TestFinishedRequestResetsCreditFullyOnSuccess(t *testing.T) {
	cd := NewCoolDown()
	cd.FinishedRequest(true, 1)
	cd.FinishedRequest(true, 1)
	require.Greater(t, cd.timeoutCount, 0.0)

	cd.FinishedRequest(false, 1)
	assert.Equal(t, 0.0, cd.timeoutCount)
}

func TestFinishedRequestStopsAddingCreditOnceAtLimit(t *testing.T) {
	cd := NewCoolDown()
	for i := 0; i < 5; i++ {
		cd.FinishedRequest(true, 1)
	}
	assert.Equal(t, creditLimit, cd.timeoutCount)
}

func TestSkipRequestTripsAfterThreeSingleURLTimeouts(t *testing.T) {
	cd := NewCoolDown()
	for i := 0; i < 3; i++ {
		cd.FinishedRequest(true, 1)
		cd.lastRequest = time.Now()
	}
	assert.True(t, cd.SkipRequest(), "the fourth call within 72h must be skipped without touching the network")
}

func TestSkipRequestForgivesCreditOnceTheWindowRollsOver(t *testing.T) {
	cd := NewCoolDown()
	for i := 0; i < 3; i++ {
		cd.FinishedRequest(true, 1)
	}
	cd.lastRequest = time.Now().Add(-creditReset - time.Second)

	assert.False(t, cd.SkipRequest())
	assert.Equal(t, 0.0, cd.timeoutCount)
}

func TestAwaitCoolDownRespectsContextCancellation(t *testing.T) {
	cd := NewCoolDown()
	cd.lastRequest = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := cd.AwaitCoolDown(ctx, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
