package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
)

type flagger interface {
	Flag() *bool
}

type testFlags struct {
	Enabled *bool  `json:"enabled,omitempty"`
	Label   string `json:"label,omitempty"`
}

func (f *testFlags) Flag() *bool { return f.Enabled }

const kindFlags contract.Kind = "flags"

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(kindFlags, func() any { return &testFlags{} })
	return r
}

func TestMaterialize_AllRawFormsAgree(t *testing.T) {
	r := newTestRegistry()
	body := `{"enabled":true,"label":"x"}`

	inputs := map[string]any{
		"map":             map[string]any{"enabled": true, "label": "x"},
		"bytes":           []byte(body),
		"raw message":     json.RawMessage(body),
		"string":          body,
		"envelope":        &Envelope{StatusCode: 200, Data: json.RawMessage(body)},
		"envelope value":  Envelope{Data: map[string]any{"enabled": true, "label": "x"}},
		"nested envelope": &Envelope{Data: &Envelope{Data: body}},
	}

	want := &testFlags{Enabled: boolPtr(true), Label: "x"}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := Materialize[flagger](r, kindFlags, raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestMaterialize_UnregisteredKind(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Materialize(contract.KindCard, map[string]any{})
	require.Error(t, err)
	assert.True(t, trerr.IsConfigurationError(err))

	_, err = Materialize[flagger](r, contract.KindCard, map[string]any{})
	assert.True(t, trerr.IsConfigurationError(err))
}

func TestMaterialize_EmptyPayloads(t *testing.T) {
	r := newTestRegistry()

	for name, raw := range map[string]any{
		"nil":           nil,
		"null":          []byte("null"),
		"blank":         "  ",
		"nil envelope":  (*Envelope)(nil),
		"empty wrapped": &Envelope{StatusCode: 200},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Materialize(kindFlags, raw)
			assert.ErrorIs(t, err, trerr.ErrEmptyPayload)
		})
	}
}

func TestMaterialize_IsDeterministic(t *testing.T) {
	r := newTestRegistry()
	raw := map[string]any{"enabled": false}

	a, err := Materialize[flagger](r, kindFlags, raw)
	require.NoError(t, err)
	b, err := Materialize[flagger](r, kindFlags, raw)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotSame(t, a, b)
}

func TestMaterialize_AlreadyTypedPassesThrough(t *testing.T) {
	r := newTestRegistry()
	obj := &testFlags{Label: "kept"}

	got, err := Materialize[flagger](r, kindFlags, obj)
	require.NoError(t, err)
	assert.Same(t, obj, got)
}

func TestMaterialize_ContractMismatch(t *testing.T) {
	r := NewRegistry()
	r.Register(kindFlags, func() any { return &map[string]any{} })

	_, err := Materialize[flagger](r, kindFlags, `{"enabled":true}`)
	assert.True(t, trerr.IsConfigurationError(err))
}

func TestMaterialize_UnsupportedRaw(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Materialize(kindFlags, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported payload type int")
}

func TestMaterialize_BadJSON(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Materialize(kindFlags, `{"enabled":"yes"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "materialize flags")
}

func boolPtr(b bool) *bool { return &b }
