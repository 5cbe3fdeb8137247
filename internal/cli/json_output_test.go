package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amterp/trellis/internal/entity"
	"github.com/amterp/trellis/internal/queue"
)

// getters returns the methods of t that read a field: they take only a
// context and return one value.
func getters(t reflect.Type) map[string]reflect.Type {
	ctxType := reflect.TypeOf((*context.Context)(nil)).Elem()
	out := make(map[string]reflect.Type)
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.Type.NumIn() == 2 && m.Type.In(1) == ctxType && m.Type.NumOut() == 1 {
			out[m.Name] = m.Type.Out(0)
		}
	}
	return out
}

// TestJsonFieldSync ensures every *Json type has a field for each getter of
// its entity. If this fails, you probably added a getter but forgot the
// output field.
func TestJsonFieldSync(t *testing.T) {
	tests := []struct {
		name     string
		entity   reflect.Type
		output   reflect.Type
		jsonOnly []string
	}{
		{"board", reflect.TypeOf(&entity.Board{}), reflect.TypeOf(boardJson{}), []string{"ID"}},
		{"prefs", reflect.TypeOf(&entity.BoardPersonalPreferences{}), reflect.TypeOf(prefsJson{}), []string{"Board"}},
		{"card", reflect.TypeOf(&entity.Card{}), reflect.TypeOf(cardJson{}), []string{"ID"}},
		{"member", reflect.TypeOf(&entity.Member{}), reflect.TypeOf(memberJson{}), []string{"ID"}},
		{"action", reflect.TypeOf(&entity.Action{}), reflect.TypeOf(actionJson{}), []string{"ID"}},
		{"organization", reflect.TypeOf(&entity.Organization{}), reflect.TypeOf(organizationJson{}), []string{"ID"}},
		{"membership", reflect.TypeOf(&entity.OrganizationMembership{}), reflect.TypeOf(membershipJson{}), []string{"ID", "Organization"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getters(tt.entity)
			require.NotEmpty(t, got)

			for name, typ := range got {
				field, ok := tt.output.FieldByName(name)
				if assert.True(t, ok, "%s has getter %s but %s has no such field", tt.entity, name, tt.output) {
					assert.Equal(t, typ, field.Type, "field %s", name)
				}
			}

			for i := 0; i < tt.output.NumField(); i++ {
				name := tt.output.Field(i).Name
				if _, ok := got[name]; !ok {
					assert.Contains(t, tt.jsonOnly, name, "%s.%s matches no getter", tt.output, name)
				}
			}
		})
	}
}

func TestPrintJson_OmitsUnknownFields(t *testing.T) {
	name := "Write docs"
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, printJson(&buf, cardJson{ID: "c1", ShortID: 1, Name: &name, Due: &due}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]any{
		"id":       "c1",
		"short_id": float64(1),
		"name":     "Write docs",
		"due":      "2026-03-01T12:00:00Z",
	}, got)
}

func TestWriteToJson(t *testing.T) {
	out := writeToJson(entity.FlushResult{
		Method: "PUT",
		Path:   "cards/c1",
		Sent:   []queue.Param{{Name: "name", Value: "Ship"}, {Name: "closed", Value: "true"}},
	})
	assert.Equal(t, []string{"name=Ship", "closed=true"}, out.Params)

	skipped := writeToJson(entity.FlushResult{Skipped: true})
	assert.NotNil(t, skipped.Params)
	assert.True(t, skipped.Skipped)
}
