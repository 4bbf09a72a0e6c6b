package models

import "time"

// ExchangeRateArgs are the arguments of the get_exchange_rate command
type ExchangeRateArgs struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// ErrorResponse is the HTTP body for a failed invocation.
// Error carries the same message the stdio transport reports.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Code  int    `json:"code"`
}

// CommandList lists the commands a client may invoke
type CommandList struct {
	Commands []string `json:"commands"`
}

// HealthCheck is the body of GET /health
type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}
