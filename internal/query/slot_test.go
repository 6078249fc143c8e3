package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// INVARIANT: a superseded response can never overwrite newer state
// BREAKS: rapid filter switching shows the list of an older filter
func TestSlotSupersedes(t *testing.T) {
	var s Slot

	ctx1, tok1 := s.Begin(context.Background())
	ctx2, tok2 := s.Begin(context.Background())

	assert.True(t, errors.Is(ctx1.Err(), context.Canceled))
	assert.NoError(t, ctx2.Err())
	assert.False(t, s.Current(tok1))
	assert.True(t, s.Current(tok2))
	assert.Equal(t, tok2, s.Token())
}

func TestSlotCancel(t *testing.T) {
	var s Slot
	ctx, tok := s.Begin(context.Background())

	s.Cancel()

	assert.Error(t, ctx.Err())
	assert.False(t, s.Current(tok))
}

func TestResultStates(t *testing.T) {
	assert.True(t, Pending[int]().Loading())
	assert.Equal(t, "", Pending[int]().Message())

	r := From(0, errors.New("offline"))
	assert.Equal(t, StatusError, r.Status)
	assert.Equal(t, "offline", r.Message())

	ok := From([]int{}, nil)
	assert.True(t, ok.Ok())
	assert.Empty(t, ok.Data)
	assert.Equal(t, "success", ok.Status.String())
}
