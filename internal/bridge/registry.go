package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/dalfonso89/rolimons-bridge/internal/logger"
	"github.com/dalfonso89/rolimons-bridge/internal/models"

	"github.com/sirupsen/logrus"
)

// Command names as the front-end invokes them
const (
	CommandGetRolimonItems = "get_rolimon_items"
	CommandGetExchangeRate = "get_exchange_rate"
)

// CommandFunc runs one command with its JSON arguments.
// The result must be JSON serializable.
type CommandFunc func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Registry maps command names to their implementations
type Registry struct {
	commands map[string]CommandFunc
	logger   *logger.Logger
}

// NewRegistry creates a registry exposing the bridge commands
func NewRegistry(bridge *Bridge, logger *logger.Logger) *Registry {
	registry := &Registry{
		commands: make(map[string]CommandFunc),
		logger:   logger,
	}
	registry.Register(CommandGetRolimonItems, bridge.getRolimonItemsCommand)
	registry.Register(CommandGetExchangeRate, bridge.getExchangeRateCommand)
	return registry
}

// Register adds or replaces a command. It must not race with Invoke.
func (r *Registry) Register(name string, command CommandFunc) {
	r.commands[name] = command
}

// Names returns the registered command names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command. Once started the command runs to
// completion even if ctx is cancelled by the caller.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	command, found := r.commands[name]
	if !found {
		err := &UnknownCommandError{Name: name}
		r.logger.Command(name).Warn(err.Error())
		return nil, err
	}

	start := time.Now()
	result, err := command(context.WithoutCancel(ctx), args)
	entry := r.logger.Command(name).WithField("duration", time.Since(start))
	if err != nil {
		entry.WithFields(logrus.Fields{
			"kind":  Classify(err).String(),
			"error": err.Error(),
		}).Warn("Command failed")
		return nil, err
	}
	entry.Info("Command completed")
	return result, nil
}

func (b *Bridge) getRolimonItemsCommand(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	return b.GetRolimonItems(ctx)
}

func (b *Bridge) getExchangeRateCommand(ctx context.Context, args json.RawMessage) (interface{}, error) {
	exchangeRateArgs, err := decodeExchangeRateArgs(args)
	if err != nil {
		return nil, &ArgumentError{Command: CommandGetExchangeRate, Err: err}
	}
	return b.GetExchangeRate(ctx, exchangeRateArgs.From, exchangeRateArgs.To, exchangeRateArgs.Amount)
}

// decodeExchangeRateArgs requires every field to be present, so a missing
// amount is an argument error rather than a silent zero.
func decodeExchangeRateArgs(args json.RawMessage) (models.ExchangeRateArgs, error) {
	var fields struct {
		From   *string  `json:"from"`
		To     *string  `json:"to"`
		Amount *float64 `json:"amount"`
	}
	if len(bytes.TrimSpace(args)) == 0 {
		return models.ExchangeRateArgs{}, errors.New("missing required key from")
	}
	if err := json.Unmarshal(args, &fields); err != nil {
		return models.ExchangeRateArgs{}, err
	}

	switch {
	case fields.From == nil:
		return models.ExchangeRateArgs{}, errors.New("missing required key from")
	case fields.To == nil:
		return models.ExchangeRateArgs{}, errors.New("missing required key to")
	case fields.Amount == nil:
		return models.ExchangeRateArgs{}, errors.New("missing required key amount")
	}

	return models.ExchangeRateArgs{
		From:   *fields.From,
		To:     *fields.To,
		Amount: *fields.Amount,
	}, nil
}
