package async

import (
	"context"
	"sync"
	"time"

	"sparksound/pkg/logger"
)

// Task 表示一个异步任务
type Task struct {
	Name     string
	Handler  func(ctx context.Context) error
	Timeout  time.Duration
	RetryMax int
}

// Worker 异步任务处理器
// 用于不需要调用方等待的后台工作，例如TTS音频生成、转写记录落库
type Worker struct {
	taskQueue chan Task
	logger    *logger.Logger
	wg        sync.WaitGroup
}

// NewWorker 创建一个新的工作器
func NewWorker(queueSize int, logger *logger.Logger) *Worker {
	return &Worker{
		taskQueue: make(chan Task, queueSize),
		logger:    logger,
	}
}

// Start 启动工作器
func (w *Worker) Start(numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.processTask()
	}
}

// Stop 停止工作器
func (w *Worker) Stop() {
	close(w.taskQueue)
	w.wg.Wait()
}

// Submit 将任务加入队列
func (w *Worker) Submit(task Task) {
	w.taskQueue <- task
}

// SubmitFunc 以默认参数提交一个任务
func (w *Worker) SubmitFunc(name string, handler func(ctx context.Context) error) {
	w.Submit(Task{Name: name, Handler: handler})
}

// processTask 处理任务的工作循环
func (w *Worker) processTask() {
	defer w.wg.Done()

	for task := range w.taskQueue {
		w.executeTask(task)
	}
}

// executeTask 执行单个任务
func (w *Worker) executeTask(task Task) {
	start := time.Now()

	// 创建带超时的上下文
	ctx := context.Background()
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	// 执行任务，支持重试
	var err error
	for attempt := 0; attempt <= task.RetryMax; attempt++ {
		if attempt > 0 {
			w.logger.Info("重试异步任务", "task", task.Name, "attempt", attempt)
			time.Sleep(time.Second * time.Duration(attempt)) // 简单的退避策略
		}

		err = task.Handler(ctx)
		if err == nil {
			break
		}
	}

	if err != nil {
		w.logger.Error("异步任务执行失败", "task", task.Name, "error", err)
	} else {
		w.logger.Debug("异步任务执行完成", "task", task.Name, "duration", time.Since(start))
	}
}
