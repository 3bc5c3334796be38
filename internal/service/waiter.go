package service

import (
	"context"
	"time"
)

// waitFor は cond が true を返すまで interval ごとにポーリングします。
// timeout 経過時は (false, nil)、コンテキストのキャンセル時は (false, ctx.Err())、
// cond のエラーは即座に伝搬します。
func waitFor(ctx context.Context, timeout, interval time.Duration, cond func(context.Context) (bool, error)) (bool, error) {
	deadline := time.Now().Add(timeout)

	for {
		ok, err := cond(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(interval):
		}
	}
}
