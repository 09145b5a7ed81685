package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/kr/pretty"
	slog "github.com/sagikazarmark/slog-shim"
	"github.com/spf13/afero"

	"github.com/spf13/mapjson"
)

func run(args []string, fs afero.Fs, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, rest, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("expected at most one input file, got %d", len(rest))
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	data, err := readInput(fs, rest, stdin)
	if err != nil {
		return err
	}

	codec := mapjson.New(
		mapjson.WithIndent(cfg.Indent),
		mapjson.WithDeterministic(cfg.Deterministic),
		mapjson.WithLogger(logger),
	)

	value, err := decode(codec, cfg, data)
	if err != nil {
		return err
	}

	if cfg.Dump {
		if _, err := pretty.Fprintf(stderr, "%# v\n", value); err != nil {
			return err
		}
	}

	out, err := codec.Marshal(value)
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if cfg.Output == "" {
		_, err = stdout.Write(out)
		return err
	}

	logger.Debug("writing output", "file", cfg.Output)
	return afero.WriteFile(fs, cfg.Output, out, 0o644)
}

func readInput(fs afero.Fs, args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}

	path := args[0]
	ok, err := exists(fs, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InputFileNotFoundError{path: path}
	}
	return afero.ReadFile(fs, path)
}

func decode(codec *mapjson.Codec, cfg Config, data []byte) (any, error) {
	switch cfg.KeyType {
	case KeyInt:
		return decodeAs[int64](codec, data, cfg.KeepOrder)
	case KeyUint:
		return decodeAs[uint64](codec, data, cfg.KeepOrder)
	case KeyBool:
		return decodeAs[bool](codec, data, cfg.KeepOrder)
	case KeyUUID:
		return decodeAs[uuid.UUID](codec, data, cfg.KeepOrder)
	case KeyTime:
		return decodeAs[time.Time](codec, data, cfg.KeepOrder)
	case KeyString, "":
		return decodeAs[string](codec, data, cfg.KeepOrder)
	}
	return nil, UnsupportedKeyTypeError(cfg.KeyType)
}

func decodeAs[K comparable](codec *mapjson.Codec, data []byte, keepOrder bool) (any, error) {
	if keepOrder {
		m := mapjson.NewOrderedMap[K, any]()
		if err := codec.Unmarshal(data, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	var m map[K]any
	if err := codec.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
