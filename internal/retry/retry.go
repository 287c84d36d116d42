package retry

import (
	"time"
)

// Find 按固定次数、固定间隔重试查找操作，直到查找成功或次数用尽。
// 用于处理webhook先于本地写入到达的竞态：目标行可能尚未提交。
func Find[T any](attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for i := 0; i < attempts; i++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}

	return result, err
}
