// Package worker runs the asynq task consumers.
package worker

import (
	"context"
	"errors"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/tasks"
)

// WorkerServer wraps the asynq server and its handler registrations.
type WorkerServer struct {
	server           *asynq.Server
	log              *logrus.Entry
	broadcastHandler *EventBroadcastHandler
	sweepHandler     *RoomSweepHandler
}

func NewWorkerServer(redisOpt asynq.RedisClientOpt, broadcastHandler *EventBroadcastHandler, sweepHandler *RoomSweepHandler, logger *logrus.Logger) *WorkerServer {
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	return &WorkerServer{
		server:           server,
		log:              logEntry,
		broadcastHandler: broadcastHandler,
		sweepHandler:     sweepHandler,
	}
}

// Start runs the worker server. Call from its own goroutine.
func (ws *WorkerServer) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEventBroadcast, ws.broadcastHandler.ProcessTask)
	mux.HandleFunc(tasks.TypeRoomSweep, ws.sweepHandler.ProcessTask)

	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(mux); err != nil {
		if !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Fatalf("Could not run worker server: %v", err)
		}
		ws.log.Info("Worker server stopped.")
	}
}

// Shutdown stops the worker server gracefully.
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down.")
}
