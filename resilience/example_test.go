package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/ragteam/resilience"
)

func ExampleNewExecutor() {
	exec := resilience.NewExecutor(
		resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate: 100, Burst: 1, WaitOnLimit: true,
		})),
		resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 2})),
		resilience.WithTimeout(time.Second),
	)

	body, err := resilience.Do(context.Background(), exec, func(ctx context.Context) (string, error) {
		return "<html>results</html>", nil
	})
	fmt.Println(body, err)
	// Output:
	// <html>results</html> <nil>
}

func ExampleExecuteWithTimeout() {
	err := resilience.ExecuteWithTimeout(context.Background(), 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	fmt.Println(errors.Is(err, resilience.ErrTimeout))
	// Output:
	// true
}

func ExampleBulkhead_Metrics() {
	b := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 3})
	_ = b.Execute(context.Background(), func(context.Context) error {
		m := b.Metrics()
		fmt.Println("active:", m.Active, "available:", m.Available)
		return nil
	})
	// Output:
	// active: 1 available: 2
}
