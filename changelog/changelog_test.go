package changelog

import (
	"encoding/json"
	"testing"

	"github.com/oscarhermoso/cubecache/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangelog_IsEmpty(t *testing.T) {
	assert.True(t, Changelog{}.IsEmpty())
	assert.True(t, Changelog{MainboardName: {}}.IsEmpty())
	assert.False(t, Changelog{"Maybeboard": {Adds: []string{"x"}}}.IsEmpty())
}

func TestChangelog_Boards(t *testing.T) {
	cl := Changelog{
		MainboardName: {Adds: []string{"a"}},
		"Maybeboard":  {Removes: []Removal{{OldCard: "b"}}},
	}

	assert.Equal(t, []string{"a"}, cl.Mainboard().Adds)
	maybe, ok := cl.Board("Maybeboard")
	require.True(t, ok)
	assert.Equal(t, "b", maybe.Removes[0].OldCard)
	_, ok = cl.Board("Sideboard")
	assert.False(t, ok)
}

func TestChangelog_JSONShape(t *testing.T) {
	var cl Changelog
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Mainboard":{"swaps":[{"card":"new","oldCard":"old"}]}}`), &cl))

	assert.Equal(t, []Swap{{Card: "new", OldCard: "old"}}, cl.Mainboard().Swaps)
	assert.Empty(t, cl.Mainboard().Adds)

	out, err := json.Marshal(cl)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Mainboard":{"swaps":[{"card":"new","oldCard":"old"}]}}`, string(out))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "changelog/cube-1/abc.json", Key("cube-1", "abc"))
}

func TestDocument_Validate(t *testing.T) {
	ok := Document{ID: "a", CubeID: "c", Changelog: Changelog{}}
	assert.NoError(t, ok.Validate())

	tests := []struct {
		name string
		doc  Document
	}{
		{"missing id", Document{CubeID: "c", Changelog: Changelog{}}},
		{"missing cube", Document{ID: "a", Changelog: Changelog{}}},
		{"slash in id", Document{ID: "a/b", CubeID: "c", Changelog: Changelog{}}},
		{"nil changelog", Document{ID: "a", CubeID: "c"}},
		{"negative date", Document{ID: "a", CubeID: "c", Date: -1, Changelog: Changelog{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(tt.doc.Validate()))
		})
	}
}

func TestBatchError(t *testing.T) {
	cause := errors.New(errors.CodeNetwork, "reset")
	err := &BatchError{
		Total: 3,
		Failures: []DocumentError{
			{ID: "b", CubeID: "c", Err: cause},
		},
	}

	assert.Equal(t, "1 of 3 changelogs failed: b", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.IsRetryable(err))
}
