package model

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"

	"github.com/koopa0/canvas/internal/message"
)

// Metadata keys on the synthesized context-document message. The raw
// documents ride along so the message can be re-encoded when the active
// provider changes between turns.
const (
	DocProviderKey = "canvas:documentProvider"
	DocumentsKey   = "canvas:documents"
)

const pdfMediaType = "application/pdf"

// Document is a user-attached context document. Data is base64 for PDFs
// and plain text otherwise.
type Document struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// PDFConverter turns base64 PDF data into plain text, for providers that
// cannot ingest PDFs natively.
type PDFConverter func(ctx context.Context, base64Data string) (string, error)

// EncodeDocumentMessage builds the hidden human message that carries the
// attached documents in the active provider's format. The raw documents
// are stashed in metadata for later re-encoding.
func EncodeDocumentMessage(ctx context.Context, provider Provider, docs []Document, conv PDFConverter) (message.Message, error) {
	parts := make([]*ai.Part, 0, len(docs))
	for _, doc := range docs {
		part, err := encodeDocument(ctx, provider, doc, conv)
		if err != nil {
			return message.Message{}, fmt.Errorf("encode document %q: %w", doc.Name, err)
		}
		parts = append(parts, part)
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return message.Message{}, fmt.Errorf("marshal documents: %w", err)
	}

	msg := message.NewHumanParts(parts).WithMarker(message.HideFromUIKey)
	msg.Metadata[DocProviderKey] = string(provider)
	msg.Metadata[DocumentsKey] = string(raw)
	return msg, nil
}

// ReencodeDocumentMessage rebuilds a document message for a different
// provider. The replacement carries a fresh id; callers remove the old
// message by its id. It returns nil when the message is not a document
// message or is already encoded for the given provider.
func ReencodeDocumentMessage(ctx context.Context, provider Provider, msg message.Message, conv PDFConverter) (*message.Message, error) {
	encoded, ok := msg.Metadata[DocProviderKey].(string)
	if !ok || encoded == string(provider) {
		return nil, nil
	}
	raw, ok := msg.Metadata[DocumentsKey].(string)
	if !ok {
		return nil, nil
	}
	var docs []Document
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, fmt.Errorf("unmarshal stored documents: %w", err)
	}
	rebuilt, err := EncodeDocumentMessage(ctx, provider, docs, conv)
	if err != nil {
		return nil, err
	}
	return &rebuilt, nil
}

// FindDocumentMessage returns the index of the document carrier in a
// history, or -1.
func FindDocumentMessage(msgs []message.Message) int {
	for i, m := range msgs {
		if _, ok := m.Metadata[DocProviderKey]; ok {
			return i
		}
	}
	return -1
}

func encodeDocument(ctx context.Context, provider Provider, doc Document, conv PDFConverter) (*ai.Part, error) {
	if doc.Type != pdfMediaType {
		return ai.NewTextPart(documentText(doc.Name, doc.Data)), nil
	}
	switch provider {
	case ProviderGoogle:
		return ai.NewMediaPart(pdfMediaType, "data:"+pdfMediaType+";base64,"+doc.Data), nil
	default:
		if conv == nil {
			return nil, fmt.Errorf("provider %s requires a PDF converter", provider)
		}
		if _, err := base64.StdEncoding.DecodeString(doc.Data); err != nil {
			return nil, fmt.Errorf("invalid base64 PDF data: %w", err)
		}
		text, err := conv(ctx, doc.Data)
		if err != nil {
			return nil, fmt.Errorf("convert PDF to text: %w", err)
		}
		return ai.NewTextPart(documentText(doc.Name, text)), nil
	}
}

func documentText(name, body string) string {
	var b strings.Builder
	b.WriteString("<document name=")
	b.WriteString(fmt.Sprintf("%q", name))
	b.WriteString(">\n")
	b.WriteString(body)
	b.WriteString("\n</document>")
	return b.String()
}
