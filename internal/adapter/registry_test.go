package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/authgate/internal/exec/mocks"
)

func TestRegistry_Resolve(t *testing.T) {
	r, err := NewRegistry(&mocks.ExecutorMock{})
	require.NoError(t, err)

	t.Run("resolves every builtin", func(t *testing.T) {
		for _, id := range BuiltinServices {
			a, err := r.Resolve(string(id))
			require.NoError(t, err)
			assert.Equal(t, string(id), a.Descriptor().Name)
		}
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := r.Resolve("bitbucket")
		assert.ErrorIs(t, err, ErrUnsupportedService)
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		_, err := r.Resolve("GitHub")
		assert.ErrorIs(t, err, ErrUnsupportedService)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := r.Resolve("")
		assert.ErrorIs(t, err, ErrUnsupportedService)
	})
}

func TestRegistry_Names(t *testing.T) {
	r, err := NewRegistry(&mocks.ExecutorMock{}, Descriptor{
		Name:  "vault",
		Check: Command{"vault", "token", "lookup"},
		Login: Command{"vault", "login", "-method=oidc"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"aws", "azure", "gcp", "github", "gitlab", "vault"}, r.Names())
}

func TestRegistry_CustomServices(t *testing.T) {
	t.Run("duplicate of builtin", func(t *testing.T) {
		_, err := NewRegistry(&mocks.ExecutorMock{}, Descriptor{
			Name:  "github",
			Check: Command{"true"},
			Login: Command{"true"},
		})
		assert.ErrorIs(t, err, ErrDuplicateService)
	})

	t.Run("invalid descriptor", func(t *testing.T) {
		tests := []struct {
			name string
			desc Descriptor
		}{
			{name: "bad name", desc: Descriptor{Name: "../etc", Check: Command{"true"}, Login: Command{"true"}}},
			{name: "no check", desc: Descriptor{Name: "svc", Login: Command{"true"}}},
			{name: "no login", desc: Descriptor{Name: "svc", Check: Command{"true"}}},
			{name: "empty executable", desc: Descriptor{Name: "svc", Check: Command{"true"}, Login: Command{""}}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewRegistry(&mocks.ExecutorMock{}, tt.desc)
				assert.ErrorIs(t, err, ErrInvalidDescriptor)
			})
		}
	})
}

func TestRegistry_ByBinary(t *testing.T) {
	r, err := NewRegistry(&mocks.ExecutorMock{})
	require.NoError(t, err)

	a, ok := r.ByBinary("gcloud")
	require.True(t, ok)
	assert.Equal(t, "gcp", a.Descriptor().Name)

	_, ok = r.ByBinary("kubectl")
	assert.False(t, ok)
}
