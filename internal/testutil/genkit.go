package testutil

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/genkit"

	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/model"
)

// ModelSetup bundles the resources model-backed tests need.
type ModelSetup struct {
	Genkit *genkit.Genkit
	Mock   *MockLLM
	Client *model.Client
}

// SetupMockModel initializes genkit without provider plugins and registers
// a mock model under MockModelName. The returned client routes every
// generation through the mock.
func SetupMockModel(t *testing.T, fallback string) *ModelSetup {
	t.Helper()

	g := genkit.Init(context.Background())
	mock := NewMockLLM(fallback)
	mock.Register(g)

	return &ModelSetup{
		Genkit: g,
		Mock:   mock,
		Client: model.NewClient(g, log.NewNop()),
	}
}
