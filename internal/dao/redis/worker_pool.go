package redis

import (
	"go.uber.org/zap"
)

// cacheTask is a queued cache operation.
type cacheTask struct {
	Action func()
}

var cacheTaskChan chan *cacheTask

// SubmitCacheTask queues a cache operation for a background worker. When
// the queue is full the task runs synchronously instead of being dropped.
func SubmitCacheTask(action func()) {
	select {
	case cacheTaskChan <- &cacheTask{Action: action}:
	default:
		zap.L().Warn("redis cache task channel full, executing synchronously")
		action()
	}
}

func startWorker() {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("redis worker panic", zap.Any("recover", r))
			go startWorker() // restart
		}
	}()

	for task := range cacheTaskChan {
		if task.Action != nil {
			task.Action()
		}
	}
}

// InitCacheWorker starts the worker pool consuming queued cache tasks.
func InitCacheWorker(workerNum int, bufferSize int) {
	cacheTaskChan = make(chan *cacheTask, bufferSize)

	for i := 0; i < workerNum; i++ {
		go startWorker()
	}
	zap.L().Info("redis cache workers started",
		zap.Int("workers", workerNum), zap.Int("buffer", bufferSize))
}
