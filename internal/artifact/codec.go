package artifact

import (
	"encoding/json"
	"fmt"
)

// contentEnvelope is the serialized form of a Content version. The type
// tag discriminates the two variants.
type contentEnvelope struct {
	Index      int    `json:"index"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Language   string `json:"language,omitempty"`
	Code       string `json:"code,omitempty"`
	ValidReact bool   `json:"isValidReact,omitempty"`
	Markdown   string `json:"fullMarkdown,omitempty"`
}

type artifactEnvelope struct {
	CurrentIndex int               `json:"currentIndex"`
	Contents     []contentEnvelope `json:"contents"`
}

// MarshalJSON serializes the artifact with tagged content variants.
func (a Artifact) MarshalJSON() ([]byte, error) {
	env := artifactEnvelope{CurrentIndex: a.CurrentIndex}
	for _, c := range a.Contents {
		switch v := c.(type) {
		case Code:
			env.Contents = append(env.Contents, contentEnvelope{
				Index:      v.Index,
				Type:       "code",
				Title:      v.Title,
				Language:   v.Language,
				Code:       v.Code,
				ValidReact: v.ValidReact,
			})
		case Markdown:
			env.Contents = append(env.Contents, contentEnvelope{
				Index:    v.Index,
				Type:     "text",
				Title:    v.Title,
				Markdown: v.Markdown,
			})
		default:
			return nil, fmt.Errorf("marshal artifact: unknown content variant %T", c)
		}
	}
	return json.Marshal(env)
}

// UnmarshalJSON restores an artifact from its serialized form.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	var env artifactEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	out := Artifact{CurrentIndex: env.CurrentIndex}
	for _, c := range env.Contents {
		switch c.Type {
		case "code":
			out.Contents = append(out.Contents, Code{
				Index:      c.Index,
				Title:      c.Title,
				Language:   c.Language,
				Code:       c.Code,
				ValidReact: c.ValidReact,
			})
		case "text":
			out.Contents = append(out.Contents, Markdown{
				Index:    c.Index,
				Title:    c.Title,
				Markdown: c.Markdown,
			})
		default:
			return fmt.Errorf("unmarshal artifact: unknown content type %q", c.Type)
		}
	}
	*a = out
	return nil
}
