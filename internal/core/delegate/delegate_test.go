package delegate

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSocket struct {
	closed  atomic.Int32
	channel int
}

func fakeTypes() (base, derived *Type) {
	base = NewType("platform.BaseSocket", nil,
		MethodSpec{
			Name:   "close",
			Public: true,
			Fn: func(recv any, _ []any) (any, error) {
				recv.(*fakeSocket).closed.Add(1)
				return nil, nil
			},
		},
		MethodSpec{
			Name:   "port",
			Public: true,
			Fn: func(_ any, _ []any) (any, error) {
				return "base", nil
			},
		},
	)
	derived = NewType("platform.RfcommSocket", base,
		MethodSpec{
			Name:   "bind",
			Params: []string{"int"},
			Fn: func(recv any, args []any) (any, error) {
				recv.(*fakeSocket).channel = args[0].(int)
				return 0, nil
			},
		},
		MethodSpec{
			Name: "port",
			Fn: func(_ any, _ []any) (any, error) {
				return "derived-hidden", nil
			},
		},
		MethodSpec{
			Name:   "version",
			Static: true,
			Public: true,
			Fn: func(_ any, _ []any) (any, error) {
				return 2, nil
			},
		},
		MethodSpec{
			Name:   "boom",
			Public: true,
			Fn: func(_ any, _ []any) (any, error) {
				panic("kaboom")
			},
		},
		MethodSpec{
			Name:   "fail",
			Public: true,
			Fn: func(_ any, _ []any) (any, error) {
				return nil, errors.New("io failure")
			},
		},
	)
	return base, derived
}

func TestDescriptor_String(t *testing.T) {
	assert.Equal(t, "close()", Method("close").String())
	assert.Equal(t, "connect(address,channel)", Method("connect", "address", "channel").String())
	assert.Equal(t, 2, Method("connect", "address", "channel").Arity())
}

func TestRegistry(t *testing.T) {
	_, derived := fakeTypes()
	reg := NewRegistry()

	require.NoError(t, reg.Register(derived))
	assert.ErrorIs(t, reg.Register(derived), ErrDuplicateType)
	assert.ErrorIs(t, reg.Register(nil), ErrNilType)

	got, err := reg.Lookup("platform.RfcommSocket")
	require.NoError(t, err)
	assert.Same(t, derived, got)

	_, err = reg.Lookup("platform.Missing")
	assert.ErrorIs(t, err, ErrTypeNotFound)

	_, err = BindByName(reg, "rfcomm.Socket", "platform.Missing", nil)
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestBind_NilType(t *testing.T) {
	_, err := Bind("rfcomm.Socket", nil, nil)
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestBinding_Invoke(t *testing.T) {
	_, derived := fakeTypes()
	inst := &fakeSocket{}
	b, err := Bind("rfcomm.Socket", derived, inst)
	require.NoError(t, err)

	t.Run("InheritedPublic", func(t *testing.T) {
		r := b.Invoke(Method("close"))
		assert.True(t, r.OK())
		assert.EqualValues(t, 1, inst.closed.Load())
	})

	t.Run("DeclaredNonPublic", func(t *testing.T) {
		r := b.Invoke(Method("bind", "int"), 5)
		require.True(t, r.OK())
		assert.Equal(t, 5, inst.channel)
	})

	t.Run("PublicWinsOverHiddenOverride", func(t *testing.T) {
		v, ok := As[string](b.Invoke(Method("port")))
		require.True(t, ok)
		assert.Equal(t, "base", v)
	})

	t.Run("Static", func(t *testing.T) {
		v, ok := As[int](b.Invoke(Method("version")))
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("Missing", func(t *testing.T) {
		r := b.Invoke(Method("flush"))
		assert.True(t, r.Unsupported())
		assert.ErrorIs(t, r.Error(), ErrUnsupported)
		assert.False(t, b.Supports(Method("flush")))
	})

	t.Run("ParamsDistinguish", func(t *testing.T) {
		assert.True(t, b.Invoke(Method("bind")).Unsupported())
	})

	t.Run("ArgCount", func(t *testing.T) {
		r := b.Invoke(Method("bind", "int"))
		assert.Equal(t, StatusFailed, r.Status)
		assert.ErrorIs(t, r.Err, ErrArgCount)
	})

	t.Run("Panic", func(t *testing.T) {
		r := b.Invoke(Method("boom"))
		assert.Equal(t, StatusFailed, r.Status)
		assert.Contains(t, r.Err.Error(), "kaboom")
	})

	t.Run("Failure", func(t *testing.T) {
		_, err := b.Call(Method("fail"))
		assert.EqualError(t, err, "io failure")
	})

	t.Run("CallUnsupported", func(t *testing.T) {
		_, err := b.Call(Method("flush"))
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestBinding_NoInstance(t *testing.T) {
	_, derived := fakeTypes()
	b, err := Bind("rfcomm.Socket", derived, nil)
	require.NoError(t, err)

	assert.True(t, b.Invoke(Method("close")).Unsupported())
	assert.True(t, b.Invoke(Method("version")).OK())
}

func TestBinding_ResolvesOnce(t *testing.T) {
	_, derived := fakeTypes()
	inst := &fakeSocket{}
	b, err := Bind("rfcomm.Socket", derived, inst)
	require.NoError(t, err)

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			b.Invoke(Method("close"))
			b.Invoke(Method("flush"))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, n, inst.closed.Load())
	assert.EqualValues(t, 2, b.ResolveCount())

	for i := 0; i < n; i++ {
		assert.True(t, b.Invoke(Method("flush")).Unsupported())
	}
	assert.EqualValues(t, 2, b.ResolveCount())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "unsupported", StatusUnsupported.String())
	assert.Equal(t, "succeeded", StatusSucceeded.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
