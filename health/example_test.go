package health_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vkguard/vkguard/health"
)

func ExampleNewPingChecker() {
	client := health.PingerFunc(func(ctx context.Context) error {
		return nil // upstream reachable
	})

	checker := health.NewPingChecker("upstream", client)

	ctx := context.Background()
	result := checker.Check(ctx)

	fmt.Println("Checker name:", checker.Name())
	fmt.Println("Status:", result.Status.String())
	// Output:
	// Checker name: upstream
	// Status: healthy
}

func ExampleNewCheckerFunc() {
	repoChecker := health.NewCheckerFunc("repository", func(ctx context.Context) health.Result {
		// Simulate a successful ping
		return health.Healthy("repository connected")
	})

	ctx := context.Background()
	result := repoChecker.Check(ctx)

	fmt.Println("Checker name:", repoChecker.Name())
	fmt.Println("Status:", result.Status.String())
	fmt.Println("Message:", result.Message)
	// Output:
	// Checker name: repository
	// Status: healthy
	// Message: repository connected
}

func ExampleHealthy() {
	result := health.Healthy("all systems operational")

	fmt.Println("Status:", result.Status.String())
	fmt.Println("Message:", result.Message)
	// Output:
	// Status: healthy
	// Message: all systems operational
}

func ExampleDegraded() {
	result := health.Degraded("high latency detected")

	fmt.Println("Status:", result.Status.String())
	fmt.Println("Message:", result.Message)
	// Output:
	// Status: degraded
	// Message: high latency detected
}

func ExampleUnhealthy() {
	err := errors.New("connection refused")
	result := health.Unhealthy("repository unreachable", err)

	fmt.Println("Status:", result.Status.String())
	fmt.Println("Message:", result.Message)
	fmt.Println("Has error:", result.Error != nil)
	// Output:
	// Status: unhealthy
	// Message: repository unreachable
	// Has error: true
}

func ExampleResult_WithDetails() {
	result := health.Healthy("cache operational").WithDetails(map[string]any{
		"hit_rate": 0.95,
		"entries":  1234,
	})

	fmt.Println("Status:", result.Status.String())
	fmt.Println("Has details:", result.Details != nil)
	fmt.Printf("Hit rate: %.0f%%\n", result.Details["hit_rate"].(float64)*100)
	// Output:
	// Status: healthy
	// Has details: true
	// Hit rate: 95%
}

func ExampleNewAggregator() {
	agg := health.NewAggregator()

	agg.Register("upstream", health.NewPingChecker("upstream", health.PingerFunc(func(ctx context.Context) error {
		return nil
	})))
	agg.Register("repository", health.NewCheckerFunc("repository", func(ctx context.Context) health.Result {
		return health.Healthy("connected")
	}))

	fmt.Println("Registered checkers:", agg.CheckerNames())
	// Output:
	// Registered checkers: [upstream repository]
}

func ExampleAggregator_CheckAll() {
	agg := health.NewAggregator()

	agg.Register("upstream", health.NewCheckerFunc("upstream", func(ctx context.Context) health.Result {
		return health.Healthy("reachable")
	}))
	agg.Register("repository", health.NewCheckerFunc("repository", func(ctx context.Context) health.Result {
		return health.Healthy("connected")
	}))

	ctx := context.Background()
	results := agg.CheckAll(ctx)

	fmt.Println("Number of results:", len(results))
	fmt.Println("upstream status:", results["upstream"].Status.String())
	fmt.Println("repository status:", results["repository"].Status.String())
	// Output:
	// Number of results: 2
	// upstream status: healthy
	// repository status: healthy
}

func ExampleAggregator_OverallStatus() {
	agg := health.NewAggregator()

	// All healthy
	results := map[string]health.Result{
		"a": health.Healthy("ok"),
		"b": health.Healthy("ok"),
	}
	fmt.Println("All healthy:", agg.OverallStatus(results).String())

	// One degraded
	results["c"] = health.Degraded("slow")
	fmt.Println("One degraded:", agg.OverallStatus(results).String())

	// One unhealthy
	results["d"] = health.Unhealthy("down", nil)
	fmt.Println("One unhealthy:", agg.OverallStatus(results).String())
	// Output:
	// All healthy: healthy
	// One degraded: degraded
	// One unhealthy: unhealthy
}

func ExampleAggregator_Check() {
	agg := health.NewAggregator()
	agg.Register("upstream", health.NewCheckerFunc("upstream", func(ctx context.Context) health.Result {
		return health.Healthy("probe passed")
	}))

	ctx := context.Background()

	// Check specific component
	result, err := agg.Check(ctx, "upstream")
	if err == nil {
		fmt.Println("Status:", result.Status.String())
		fmt.Println("Message:", result.Message)
	}

	// Check non-existent component
	_, err = agg.Check(ctx, "unknown")
	fmt.Println("Unknown checker error:", errors.Is(err, health.ErrCheckerNotFound))
	// Output:
	// Status: healthy
	// Message: probe passed
	// Unknown checker error: true
}

func ExampleAggregator_Checker() {
	agg := health.NewAggregator()
	agg.Register("upstream", health.NewCheckerFunc("upstream", func(ctx context.Context) health.Result {
		return health.Healthy("reachable")
	}))
	agg.Register("repository", health.NewCheckerFunc("repository", func(ctx context.Context) health.Result {
		return health.Healthy("connected")
	}))

	// Use aggregator as a single checker
	checker := agg.Checker()
	ctx := context.Background()
	result := checker.Check(ctx)

	fmt.Println("Checker name:", checker.Name())
	fmt.Println("Overall status:", result.Status.String())
	fmt.Println("Has sub-check details:", result.Details != nil)
	// Output:
	// Checker name: aggregate
	// Overall status: healthy
	// Has sub-check details: true
}

func ExampleNewAggregator_withConfig() {
	agg := health.NewAggregator(health.AggregatorConfig{
		Timeout:  5 * time.Second,
		Parallel: false, // Run checks sequentially
	})

	agg.Register("upstream", health.NewCheckerFunc("upstream", func(ctx context.Context) health.Result {
		return health.Healthy("sequential check")
	}))

	ctx := context.Background()
	results := agg.CheckAll(ctx)

	fmt.Println("Check completed:", len(results) == 1)
	// Output:
	// Check completed: true
}

func ExampleStatus_String() {
	statuses := []health.Status{
		health.StatusHealthy,
		health.StatusDegraded,
		health.StatusUnhealthy,
	}

	for _, s := range statuses {
		fmt.Println(s.String())
	}
	// Output:
	// healthy
	// degraded
	// unhealthy
}
