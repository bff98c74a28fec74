package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestADC_GracefulShutdown tests that Close unblocks a pending Sample and
// stops the conversion timer.
func TestADC_GracefulShutdown(t *testing.T) {
	a := NewADC(&ADCConfig{Reference: 1.5, Start: 1.0, SampleRate: time.Hour})
	assert.NoError(t, a.Trigger())

	done := make(chan error, 1)
	go func() {
		_, err := a.Sample(context.Background())
		done <- err
	}()

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close(), "Close is idempotent")

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrClosed))
	case <-time.After(5 * time.Second):
		t.Fatal("Sample did not return after Close")
	}

	assert.True(t, errors.Is(a.Trigger(), ErrClosed))
}
