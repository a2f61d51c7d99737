package flow

import (
	"testing"

	"github.com/cottand/flowty/frontend/scope"
	"github.com/cottand/flowty/frontend/types"
	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	x := &scope.Binding{ID: 0, Name: "x"}
	y := &scope.Binding{ID: 1, Name: "y"}

	left := NewState().
		Set(x, Entry{Type: types.NumberT, Init: Initialized}).
		Set(y, Entry{Type: types.EmptyT, Init: Uninitialized}).
		SetPath("x.f", types.StringT)
	right := NewState().
		Set(x, Entry{Type: types.StringT, Init: Initialized}).
		Set(y, Entry{Type: types.NumberT, Init: Initialized})

	t.Run("commutes", func(t *testing.T) {
		assert.True(t, Join(left, right).Equal(Join(right, left)))
	})

	t.Run("unions types and weakens init", func(t *testing.T) {
		joined := Join(left, right)
		ex, _ := joined.Get(x)
		ey, _ := joined.Get(y)
		assert.Equal(t, Initialized, ex.Init)
		assert.Equal(t, "number | string", ex.Type.String())
		assert.Equal(t, MaybeInitialized, ey.Init)
		assert.Equal(t, "number", ey.Type.String())
	})

	t.Run("drops paths known on one side", func(t *testing.T) {
		_, ok := Join(left, right).Path("x.f")
		assert.False(t, ok)
	})

	t.Run("dead state is the identity", func(t *testing.T) {
		assert.True(t, Join(State{}, left).Equal(left))
		assert.True(t, Join(left, State{}).Equal(left))
		assert.True(t, JoinAll().Dead())
	})

	t.Run("is idempotent", func(t *testing.T) {
		assert.True(t, Join(left, left).Equal(left))
	})
}

func TestStateIsPersistent(t *testing.T) {
	x := &scope.Binding{ID: 0, Name: "x"}
	before := NewState().Set(x, Entry{Type: types.NumberT, Init: Initialized})
	after := before.Refine(x, types.Literal{Value: 1.0}, types.NumberT)

	e, _ := before.Get(x)
	assert.Equal(t, "number", e.Type.String())
	e, _ = after.Get(x)
	assert.Equal(t, "1", e.Type.String())
	assert.Equal(t, Initialized, e.Init)
}

func TestForgetPath(t *testing.T) {
	st := NewState().
		SetPath("a.b", types.NumberT).
		SetPath("a.b.c", types.StringT).
		SetPath("a.bc", types.StringT)

	forgot := st.ForgetPath("a.b")
	_, ok := forgot.Path("a.b")
	assert.False(t, ok)
	_, ok = forgot.Path("a.b.c")
	assert.False(t, ok)
	_, ok = forgot.Path("a.bc")
	assert.True(t, ok)

	assert.True(t, st.ForgetPaths().Equal(NewState()))
}
