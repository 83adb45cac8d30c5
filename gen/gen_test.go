package gen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/qenerate/qenerate/introspection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func TestRegistry_Lookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := NewMockPlugin(ctrl)

	r := NewRegistry()
	r.Register(DefaultPlugin, p)
	r.Register("other", PluginFunc(func(context.Context, string, *introspection.Result) (string, error) {
		return "", nil
	}))

	t.Run("Registered", func(subT *testing.T) {
		got, err := r.Lookup(DefaultPlugin)
		require.NoError(subT, err)
		assert.Equal(subT, Plugin(p), got)
	})

	t.Run("Unknown", func(subT *testing.T) {
		_, err := r.Lookup("missing")

		var uerr *UnknownPluginError
		require.True(subT, errors.As(err, &uerr))
		assert.Equal(subT, "missing", uerr.Name)
		assert.Equal(subT, []string{"other", DefaultPlugin}, uerr.Known)
	})

	t.Run("Fallback", func(subT *testing.T) {
		fr := NewRegistry()
		var asked string
		fr.Fallback(func(name string) Plugin {
			asked = name
			return p
		})

		got, err := fr.Lookup("external")
		require.NoError(subT, err)
		assert.Equal(subT, Plugin(p), got)
		assert.Equal(subT, "external", asked)
	})
}

func TestMockPlugin(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := NewMockPlugin(ctrl)
	p.EXPECT().Generate(gomock.Any(), "query Q { a }", gomock.Nil()).Return("out", nil)

	out, err := p.Generate(context.Background(), "query Q { a }", nil)
	require.NoError(t, err)
	assert.Equal(t, "out", out)
}

func TestInvalidQueryError(t *testing.T) {
	err := &InvalidQueryError{Errors: gqlerror.List{
		gqlerror.Errorf("first"),
		gqlerror.Errorf("second"),
	}}

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second")
}

func TestGeneratorError_Unwrap(t *testing.T) {
	err := GeneratorError{File: "a.gql", Plugin: "pydantic_v1", Msg: ErrUnresolvedType.Error(), Err: ErrUnresolvedType}

	assert.True(t, errors.Is(err, ErrUnresolvedType))
	assert.Contains(t, err.Error(), "pydantic_v1:a.gql")
}

func TestFile(t *testing.T) {
	assert.Equal(t, "", File(context.Background()))

	ctx := WithFile(context.Background(), "queries/pets.gql")
	assert.Equal(t, "queries/pets.gql", File(ctx))
}
