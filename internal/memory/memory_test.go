package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/canvas/internal/memory"
	"github.com/koopa0/canvas/internal/store"
)

func TestReflectionsFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		reflections memory.Reflections
		onlyContent bool
		want        string
	}{
		{
			name: "empty",
			want: "No reflections found.",
		},
		{
			name: "style rules and content",
			reflections: memory.Reflections{
				StyleRules: []string{"Use short sentences."},
				Content:    []string{"User is named Sam."},
			},
			want: "<style-rules>\nUse short sentences.\n</style-rules>\n<memories>\nUser is named Sam.\n</memories>",
		},
		{
			name: "content only requested",
			reflections: memory.Reflections{
				StyleRules: []string{"Use short sentences."},
				Content:    []string{"User is named Sam."},
			},
			onlyContent: true,
			want:        "<memories>\nUser is named Sam.\n</memories>",
		},
		{
			name: "style rules only",
			reflections: memory.Reflections{
				StyleRules: []string{"Prefer bullet lists.", "Avoid jargon."},
			},
			want: "<style-rules>\nPrefer bullet lists.\nAvoid jargon.\n</style-rules>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.reflections.Format(tt.onlyContent))
		})
	}
}

func TestReflectionsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, memory.Reflections{}.Empty())
	assert.False(t, memory.Reflections{Content: []string{"fact"}}.Empty())
	assert.False(t, memory.Reflections{StyleRules: []string{"rule"}}.Empty())
}

func TestServiceGetMissing(t *testing.T) {
	t.Parallel()

	svc := memory.NewService(store.NewMemory(), nil)
	r, found, err := svc.Get(context.Background(), "assistant-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, r.Empty())
}

func TestServiceSaveGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := memory.NewService(store.NewMemory(), nil)

	in := memory.Reflections{
		StyleRules: []string{"Write in a formal tone."},
		Content:    []string{"User works on compilers."},
	}
	require.NoError(t, svc.Save(ctx, "assistant-1", in))

	out, found, err := svc.Get(ctx, "assistant-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	// Another assistant sees nothing.
	_, found, err = svc.Get(ctx, "assistant-2")
	require.NoError(t, err)
	assert.False(t, found)
}
