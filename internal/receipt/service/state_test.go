package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutStateStrings(t *testing.T) {
	states := map[CheckoutState]string{
		StateIdle:         "idle",
		StateValidating:   "validating",
		StateAuthorizing:  "authorizing",
		StateCommitting:   "committing",
		StateDone:         "done",
		StateAborted:      "aborted",
		CheckoutState(99): "unknown",
	}
	for state, want := range states {
		assert.Equal(t, want, state.String())
	}
}
