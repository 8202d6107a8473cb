package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotesGenerator(t *testing.T, caller ModelCaller) *NotesGenerator {
	t.Helper()
	chain, err := NewChain(caller, []string{"model-a"}, nil)
	require.NoError(t, err)
	gen, err := NewNotesGenerator(chain, nil)
	require.NoError(t, err)
	return gen
}

func TestNotesGeneratorParsesResponse(t *testing.T) {
	t.Parallel()

	caller := &scriptedCaller{responses: map[string]string{"model-a": `{
		"summary": "Photosynthesis converts light into chemical energy.",
		"key_points": ["One", "Two", "Three", "Four", "Five"]
	}`}}
	gen := newTestNotesGenerator(t, caller)

	notes, err := gen.Generate(context.Background(), "photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, "photosynthesis", notes.Topic)
	assert.Equal(t, "Photosynthesis converts light into chemical energy.", notes.Summary)
	assert.Len(t, notes.KeyPoints, 5)
}

func TestNotesGeneratorStripsCodeFences(t *testing.T) {
	t.Parallel()

	caller := &scriptedCaller{responses: map[string]string{"model-a": "```json\n" +
		`{"summary": "S", "key_points": ["One"]}` + "\n```"}}
	gen := newTestNotesGenerator(t, caller)

	notes, err := gen.Generate(context.Background(), "osmosis")
	require.NoError(t, err)
	assert.Equal(t, "S", notes.Summary)
}

func TestNotesGeneratorTruncatesExcessKeyPoints(t *testing.T) {
	t.Parallel()

	caller := &scriptedCaller{responses: map[string]string{"model-a": `{
		"summary": "S",
		"key_points": ["1", "2", "3", "4", "5", "6", "7", "8", "9"]
	}`}}
	gen := newTestNotesGenerator(t, caller)

	notes, err := gen.Generate(context.Background(), "osmosis")
	require.NoError(t, err)
	assert.Len(t, notes.KeyPoints, 7)
	assert.Equal(t, "7", notes.KeyPoints[6])
}

func TestNotesGeneratorRejectsMalformedResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
	}{
		{"not json", "here are your notes: photosynthesis is..."},
		{"empty summary", `{"summary": "  ", "key_points": ["One"]}`},
		{"no key points", `{"summary": "S", "key_points": []}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			caller := &scriptedCaller{responses: map[string]string{"model-a": tt.response}}
			gen := newTestNotesGenerator(t, caller)

			_, err := gen.Generate(context.Background(), "osmosis")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestNotesGeneratorFallsBackOnMalformedResponse(t *testing.T) {
	t.Parallel()

	caller := &scriptedCaller{responses: map[string]string{
		"model-a": "not json at all",
		"model-b": `{"summary": "S", "key_points": ["One", "Two"]}`,
	}}
	chain, err := NewChain(caller, []string{"model-a", "model-b"}, nil)
	require.NoError(t, err)
	gen, err := NewNotesGenerator(chain, nil)
	require.NoError(t, err)

	notes, err := gen.Generate(context.Background(), "osmosis")
	require.NoError(t, err)
	assert.Equal(t, "S", notes.Summary)
	assert.Equal(t, []string{"model-a", "model-b"}, caller.attempted())
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFences(tt.in), tt.name)
	}
}
