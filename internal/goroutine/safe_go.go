package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/logger"
)

// Go запускает fn в отдельной горутине. Паника логируется с именем задачи и не роняет процесс.
func Go(task string, fn func()) {
	go func() {
		defer recoverPanic(task)
		fn()
	}()
}

// SafeGoWithContext запускает долгоживущую задачу, которая должна завершиться по ctx.
func SafeGoWithContext(ctx context.Context, task string, fn func(context.Context)) {
	go func() {
		defer recoverPanic(task)
		logger.Log.WithField("task", task).Debug("goroutine: задача запущена")
		fn(ctx)
		logger.Log.WithField("task", task).Debug("goroutine: задача остановлена")
	}()
}

func recoverPanic(task string) {
	if r := recover(); r != nil {
		logger.Log.WithFields(logrus.Fields{
			"task":  task,
			"panic": fmt.Sprint(r),
			"stack": string(debug.Stack()),
		}).Error("goroutine: паника в фоновой задаче")
	}
}
