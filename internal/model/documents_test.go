package model

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/canvas/internal/message"
)

var fakePDF = base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))

func staticConverter(text string) PDFConverter {
	return func(context.Context, string) (string, error) {
		return text, nil
	}
}

func TestEncodeDocumentMessageGoogle(t *testing.T) {
	t.Parallel()

	docs := []Document{{Name: "paper.pdf", Type: "application/pdf", Data: fakePDF}}
	msg, err := EncodeDocumentMessage(context.Background(), ProviderGoogle, docs, nil)
	require.NoError(t, err)

	assert.Equal(t, message.RoleHuman, msg.Role)
	assert.True(t, msg.Marked(message.HideFromUIKey))
	assert.Equal(t, string(ProviderGoogle), msg.Metadata[DocProviderKey])

	require.Len(t, msg.Parts, 1)
	assert.True(t, msg.Parts[0].IsMedia())
}

func TestEncodeDocumentMessageConverted(t *testing.T) {
	t.Parallel()

	docs := []Document{{Name: "paper.pdf", Type: "application/pdf", Data: fakePDF}}
	msg, err := EncodeDocumentMessage(context.Background(), ProviderOpenAI, docs, staticConverter("extracted text"))
	require.NoError(t, err)

	require.Len(t, msg.Parts, 1)
	text := msg.Parts[0].Text
	assert.Contains(t, text, `<document name="paper.pdf">`)
	assert.Contains(t, text, "extracted text")
}

func TestEncodeDocumentMessageNeedsConverter(t *testing.T) {
	t.Parallel()

	docs := []Document{{Name: "paper.pdf", Type: "application/pdf", Data: fakePDF}}
	_, err := EncodeDocumentMessage(context.Background(), ProviderOpenAI, docs, nil)
	assert.Error(t, err)
}

func TestEncodeDocumentMessageRejectsBadBase64(t *testing.T) {
	t.Parallel()

	docs := []Document{{Name: "paper.pdf", Type: "application/pdf", Data: "not!!base64"}}
	_, err := EncodeDocumentMessage(context.Background(), ProviderOpenAI, docs, staticConverter("x"))
	assert.Error(t, err)
}

func TestEncodeDocumentMessagePlainText(t *testing.T) {
	t.Parallel()

	docs := []Document{{Name: "notes.txt", Type: "text/plain", Data: "some notes"}}
	msg, err := EncodeDocumentMessage(context.Background(), ProviderOllama, docs, nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(msg.Parts[0].Text, "some notes"))
}

func TestReencodeDocumentMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	docs := []Document{{Name: "paper.pdf", Type: "application/pdf", Data: fakePDF}}
	msg, err := EncodeDocumentMessage(ctx, ProviderGoogle, docs, nil)
	require.NoError(t, err)

	// Same provider: nothing to do.
	rebuilt, err := ReencodeDocumentMessage(ctx, ProviderGoogle, msg, nil)
	require.NoError(t, err)
	assert.Nil(t, rebuilt)

	// Provider switch: media part becomes converted text under a fresh
	// id, so removal of the old message by id still works.
	rebuilt, err = ReencodeDocumentMessage(ctx, ProviderOpenAI, msg, staticConverter("text body"))
	require.NoError(t, err)
	require.NotNil(t, rebuilt)
	assert.NotEqual(t, msg.ID, rebuilt.ID)
	assert.NotEmpty(t, rebuilt.ID)
	assert.Equal(t, string(ProviderOpenAI), rebuilt.Metadata[DocProviderKey])
	assert.Contains(t, rebuilt.Parts[0].Text, "text body")

	// Non-document messages are ignored.
	rebuilt, err = ReencodeDocumentMessage(ctx, ProviderOpenAI, message.NewHuman("hello"), nil)
	require.NoError(t, err)
	assert.Nil(t, rebuilt)
}

func TestFindDocumentMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	docMsg, err := EncodeDocumentMessage(ctx, ProviderGoogle,
		[]Document{{Name: "a.pdf", Type: "application/pdf", Data: fakePDF}}, nil)
	require.NoError(t, err)

	msgs := []message.Message{message.NewHuman("hi"), docMsg, message.NewAI("yo")}
	assert.Equal(t, 1, FindDocumentMessage(msgs))
	assert.Equal(t, -1, FindDocumentMessage(msgs[:1]))
}
