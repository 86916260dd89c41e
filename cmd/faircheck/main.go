package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"faircheck/internal/bias"
	"faircheck/internal/cfg"
	"faircheck/internal/phi"
	"faircheck/internal/protocol"
	"faircheck/internal/scores"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// faircheck reads one JSON request (first positional argument, or stdin when
// none is given), runs the requested evaluation, and prints one JSON response
// to stdout. Logs go to stderr; a non-zero exit signals a rejected request.
func main() {
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	c, err := cfg.Load()
	if err != nil {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		log.Error().Err(err).Msg("config load failed")
		fail(err)
	}

	setupLogging(c.LogLevel, *logLevel)

	raw, err := readRequest()
	if err != nil {
		fail(err)
	}

	detector := phi.NewClient(c.ProviderURL, c.ProviderTimeout)
	engine := bias.New(scores.New())
	handler := protocol.NewHandler(engine, detector, protocol.Defaults{
		Scheme:         bias.Scheme(c.Scheme),
		RatioThreshold: c.RatioThreshold,
		Language:       c.Language,
		PHIThreshold:   c.PHIThreshold,
	})

	result, err := handler.Handle(context.Background(), raw)
	if err != nil {
		fail(err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		fail(fmt.Errorf("encoding response: %w", err))
	}
	fmt.Println(string(out))
}

func setupLogging(configured, override string) {
	name := configured
	if override != "" {
		name = override
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// readRequest takes the request document from argv when present, otherwise
// reads stdin to EOF.
func readRequest() ([]byte, error) {
	if flag.NArg() > 0 {
		return []byte(flag.Arg(0)), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading request from stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no input provided")
	}
	return data, nil
}

// fail prints the structured error object to stdout and exits non-zero, so
// callers always receive parseable output even on rejection.
func fail(err error) {
	out, _ := json.Marshal(protocol.NewErrorResponse(err))
	fmt.Println(string(out))
	os.Exit(1)
}
