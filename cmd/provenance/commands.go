package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/api/shared/executor"
	"github.com/feral-file/ff-provenance/internal/config"
	"github.com/feral-file/ff-provenance/internal/engine"
	"github.com/feral-file/ff-provenance/internal/logger"
)

// session is an engine with the configuration it was built from
type session struct {
	cfg    *config.EngineConfig
	engine *engine.Engine
	json   adapter.JSON
	out    io.Writer
	filter *gojq.Code
}

func openSession(ctx context.Context, c *cli.Context) (*session, error) {
	filter, err := compileFilter(c.String("jq"))
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadCLIConfig(c.String("config"), c.String("env"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Debug || c.Bool("debug"),
		SentryDSN: cfg.SentryDSN,
		Component: "cli",
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	eng, err := engine.New(ctx, cfg, engine.Dependencies{
		Dialer:     adapter.NewRPCDialer(cfg.Ethereum.CallTimeout),
		Clock:      adapter.NewClock(),
		FileSystem: adapter.NewFileSystem(),
		JSON:       adapter.NewJSON(),
	})
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, engine: eng, json: adapter.NewJSON(), out: c.App.Writer, filter: filter}, nil
}

// compileFilter compiles a jq expression; an empty expression means no filter
func compileFilter(expr string) (*gojq.Code, error) {
	if expr == "" {
		return nil, nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", expr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", expr, err)
	}
	return code, nil
}

func (s *session) Close() {
	s.engine.Close()
	logger.Flush(2 * time.Second)
}

func (s *session) print(v interface{}) error {
	return writeJSON(s.out, s.json, s.filter, v)
}

// writeJSON prints v as indented JSON, or every result of filter applied to it
func writeJSON(out io.Writer, j adapter.JSON, filter *gojq.Code, v interface{}) error {
	if filter == nil {
		return writeIndented(out, j, v)
	}

	// gojq only accepts plain JSON values
	data, err := j.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var doc interface{}
	if err := j.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode output: %w", err)
	}

	iter := filter.Run(doc)
	for {
		result, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := result.(error); isErr {
			return fmt.Errorf("jq filter failed: %w", err)
		}
		if err := writeIndented(out, j, result); err != nil {
			return err
		}
	}
}

func writeIndented(out io.Writer, j adapter.JSON, v interface{}) error {
	data, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// run opens a session, runs fn with a context cancelled on SIGINT/SIGTERM, then closes it
func run(c *cli.Context, fn func(ctx context.Context, s *session) error) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(ctx, s); err != nil {
		logger.ErrorCtx(ctx, err)
		return err
	}
	return nil
}

func journeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "journey",
		Usage:     "Build the supply-chain journey of a product token",
		ArgsUsage: "TOKEN_ADDRESS",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("token address is required")
			}
			address := c.Args().Get(0)

			return run(c, func(ctx context.Context, s *session) error {
				exec := executor.NewExecutor(s.engine.Builder, s.engine.Aggregator, s.engine.Catalog, s.cfg.Tokens)
				resp, err := exec.GetJourney(ctx, address)
				if err != nil {
					return err
				}
				return s.print(resp)
			})
		},
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Summarise transfer activity across tokens",
		Description: `Aggregates transfer volume per UTC day and distributes tokens by
category and price band. Without --token the configured tokens are used.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Token address to include (repeatable or comma separated)",
			},
		},
		Action: func(c *cli.Context) error {
			tokens := splitTokens(c.StringSlice("token"))

			return run(c, func(ctx context.Context, s *session) error {
				exec := executor.NewExecutor(s.engine.Builder, s.engine.Aggregator, s.engine.Catalog, s.cfg.Tokens)
				resp, err := exec.GetDashboardSummary(ctx, tokens)
				if err != nil {
					return err
				}
				return s.print(resp)
			})
		},
	}
}

func blockTimeCommand() *cli.Command {
	return &cli.Command{
		Name:      "block-time",
		Usage:     "Resolve the timestamp of a block",
		ArgsUsage: "BLOCK_NUMBER",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("block number is required")
			}
			number, err := strconv.ParseUint(c.Args().Get(0), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid block number %q: %w", c.Args().Get(0), err)
			}

			return run(c, func(ctx context.Context, s *session) error {
				ts, err := s.engine.Timestamps.Resolve(ctx, number)
				if err != nil {
					return err
				}
				logger.DebugCtx(ctx, "Resolved block timestamp", zap.Uint64("block", number), zap.Time("timestamp", ts))
				return s.print(map[string]interface{}{
					"block":     number,
					"timestamp": ts.UTC().Format(time.RFC3339),
				})
			})
		},
	}
}

func headCommand() *cli.Command {
	return &cli.Command{
		Name:  "head",
		Usage: "Print the latest block number of the endpoint",
		Action: func(c *cli.Context) error {
			return run(c, func(ctx context.Context, s *session) error {
				head, err := s.engine.Head.GetLatestBlock(ctx)
				if err != nil {
					return err
				}
				return s.print(map[string]interface{}{
					"endpoint": s.engine.Client.EndpointID(),
					"block":    head,
				})
			})
		},
	}
}

func splitTokens(values []string) []string {
	var tokens []string
	for _, v := range values {
		for _, token := range strings.Split(v, ",") {
			token = strings.TrimSpace(token)
			if token != "" {
				tokens = append(tokens, token)
			}
		}
	}
	return tokens
}
