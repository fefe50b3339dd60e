// Package app wires the application together: configuration, genkit
// provider plugins, the PostgreSQL store, the background queue, and the
// turn graph.
package app

import (
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koopa0/canvas/internal/config"
	"github.com/koopa0/canvas/internal/graph"
	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/memory"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/queue"
	"github.com/koopa0/canvas/internal/store"
	"github.com/koopa0/canvas/internal/thread"
)

// App is the application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit  *genkit.Genkit
	Client  *model.Client
	DBPool  *pgxpool.Pool
	Store   store.Store
	Memory  *memory.Service
	Threads *thread.Service
	Queue   *queue.InProcess
	Graph   *graph.Graph

	otelShutdown func()
}

// Close drains background work and releases all resources. The queue is
// closed first so in-flight jobs can still reach the database.
func (a *App) Close() error {
	a.Logger.Debug("shutting down")

	if a.Queue != nil {
		a.Queue.Close()
	}
	if a.DBPool != nil {
		a.DBPool.Close()
	}
	if a.otelShutdown != nil {
		a.otelShutdown()
	}
	return nil
}
