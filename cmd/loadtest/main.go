package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	Command         string
	Args            string
	ConcurrentUsers int
	RequestsPerUser int
	Timeout         time.Duration
	TestDuration    time.Duration
	RampUpDuration  time.Duration
	ThinkTime       time.Duration
}

// LoadTestResult holds the result of a single invocation
type LoadTestResult struct {
	UserID     int
	RequestID  int
	StatusCode int
	Duration   time.Duration
	Success    bool
	Error      error
	Timestamp  time.Time
}

// LoadTestSummary holds the summary of load test results
type LoadTestSummary struct {
	TotalRequests       int
	SuccessfulRequests  int
	FailedRequests      int
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
	ErrorRate           float64
	ResponseTime95th    time.Duration
	ResponseTime99th    time.Duration
	StatusCodes         map[int]int
}

func main() {
	var config LoadTestConfig

	flag.StringVar(&config.BaseURL, "url", "http://127.0.0.1:5174", "Bridge HTTP base URL")
	flag.StringVar(&config.Command, "command", "get_exchange_rate", "Command to invoke")
	flag.StringVar(&config.Args, "args", `{"from":"USD","to":"EUR","amount":100}`, "JSON arguments for the command")
	flag.IntVar(&config.ConcurrentUsers, "users", 10, "Number of concurrent users")
	flag.IntVar(&config.RequestsPerUser, "requests", 20, "Number of invocations per user")
	flag.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	flag.DurationVar(&config.TestDuration, "duration", 0, "Test duration (0 = run until all requests complete)")
	flag.DurationVar(&config.RampUpDuration, "rampup", 2*time.Second, "Ramp-up duration")
	flag.DurationVar(&config.ThinkTime, "think", 100*time.Millisecond, "Think time between requests")
	flag.Parse()

	if config.ConcurrentUsers <= 0 || config.RequestsPerUser <= 0 {
		fmt.Fprintln(os.Stderr, "users and requests must be positive")
		os.Exit(2)
	}

	fmt.Printf("Starting load test...\n")
	fmt.Printf("Target: %s\n", invokeURL(config))
	fmt.Printf("Args: %s\n", config.Args)
	fmt.Printf("Concurrent Users: %d\n", config.ConcurrentUsers)
	fmt.Printf("Requests per User: %d\n", config.RequestsPerUser)
	fmt.Printf("Ramp-up Duration: %v\n", config.RampUpDuration)
	fmt.Printf("Think Time: %v\n", config.ThinkTime)
	fmt.Println()

	summary, err := runLoadTest(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load test aborted: %v\n", err)
		os.Exit(1)
	}

	printSummary(summary)
}

func invokeURL(config LoadTestConfig) string {
	return strings.TrimRight(config.BaseURL, "/") + "/invoke/" + config.Command
}

func runLoadTest(config LoadTestConfig) (LoadTestSummary, error) {
	results := make(chan LoadTestResult, config.ConcurrentUsers*config.RequestsPerUser)
	client := &http.Client{Timeout: config.Timeout}
	target := invokeURL(config)

	ctx := context.Background()
	if config.TestDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.TestDuration)
		defer cancel()
	}

	startTime := time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	rampUpDelay := config.RampUpDuration / time.Duration(config.ConcurrentUsers)

	for userID := 0; userID < config.ConcurrentUsers; userID++ {
		uid := userID
		group.Go(func() error {
			if !sleep(groupCtx, time.Duration(uid)*rampUpDelay) {
				return nil
			}
			for reqID := 0; reqID < config.RequestsPerUser; reqID++ {
				if groupCtx.Err() != nil {
					return nil
				}
				results <- makeRequest(client, target, config.Args, uid, reqID)
				if !sleep(groupCtx, config.ThinkTime) {
					return nil
				}
			}
			return nil
		})
	}

	err := group.Wait()
	close(results)
	if err != nil {
		return LoadTestSummary{}, err
	}

	return processResults(results, time.Since(startTime)), nil
}

// sleep waits for d or until ctx ends; it reports whether the wait completed
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func makeRequest(client *http.Client, url, args string, userID, requestID int) LoadTestResult {
	start := time.Now()

	resp, err := client.Post(url, "application/json", strings.NewReader(args))
	duration := time.Since(start)

	result := LoadTestResult{
		UserID:    userID,
		RequestID: requestID,
		Duration:  duration,
		Timestamp: start,
		Error:     err,
	}
	if err != nil {
		return result
	}
	defer resp.Body.Close()

	// Read response body to ensure complete request
	_, _ = io.Copy(io.Discard, resp.Body)

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	return result
}

func processResults(results <-chan LoadTestResult, totalDuration time.Duration) LoadTestSummary {
	summary := LoadTestSummary{
		TotalDuration: totalDuration,
		StatusCodes:   make(map[int]int),
	}
	var responseTimes []time.Duration

	for result := range results {
		summary.TotalRequests++
		summary.StatusCodes[result.StatusCode]++
		responseTimes = append(responseTimes, result.Duration)

		if result.Success {
			summary.SuccessfulRequests++
		} else {
			summary.FailedRequests++
		}
	}

	if summary.TotalRequests == 0 {
		return summary
	}

	summary.ErrorRate = float64(summary.FailedRequests) / float64(summary.TotalRequests) * 100
	summary.RequestsPerSecond = float64(summary.TotalRequests) / totalDuration.Seconds()

	sort.Slice(responseTimes, func(i, j int) bool { return responseTimes[i] < responseTimes[j] })

	var totalResponseTime time.Duration
	for _, rt := range responseTimes {
		totalResponseTime += rt
	}
	summary.MinResponseTime = responseTimes[0]
	summary.MaxResponseTime = responseTimes[len(responseTimes)-1]
	summary.AverageResponseTime = totalResponseTime / time.Duration(len(responseTimes))
	summary.ResponseTime95th = percentile(responseTimes, 95)
	summary.ResponseTime99th = percentile(responseTimes, 99)

	return summary
}

// percentile expects sorted input
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)) * float64(p) / 100.0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func printSummary(summary LoadTestSummary) {
	fmt.Println("=== Load Test Results ===")
	fmt.Printf("Total Requests: %d\n", summary.TotalRequests)
	if summary.TotalRequests == 0 {
		return
	}
	fmt.Printf("Successful Requests: %d (%.2f%%)\n", summary.SuccessfulRequests,
		float64(summary.SuccessfulRequests)/float64(summary.TotalRequests)*100)
	fmt.Printf("Failed Requests: %d (%.2f%%)\n", summary.FailedRequests, summary.ErrorRate)
	fmt.Printf("Total Duration: %v\n", summary.TotalDuration)
	fmt.Printf("Requests per Second: %.2f\n", summary.RequestsPerSecond)
	fmt.Printf("Average Response Time: %v\n", summary.AverageResponseTime)
	fmt.Printf("Min Response Time: %v\n", summary.MinResponseTime)
	fmt.Printf("Max Response Time: %v\n", summary.MaxResponseTime)
	fmt.Printf("95th Percentile Response Time: %v\n", summary.ResponseTime95th)
	fmt.Printf("99th Percentile Response Time: %v\n", summary.ResponseTime99th)

	codes := make([]int, 0, len(summary.StatusCodes))
	for code := range summary.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	fmt.Println("\n=== Status Codes ===")
	for _, code := range codes {
		label := fmt.Sprintf("%d", code)
		if code == 0 {
			label = "transport error"
		}
		fmt.Printf("%s: %d\n", label, summary.StatusCodes[code])
	}
}
