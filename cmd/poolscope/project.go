package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolScope/internal/chain"
	"poolScope/internal/config"
	"poolScope/internal/dex"
	"poolScope/internal/model"
	"poolScope/internal/project"
	"poolScope/internal/storage/postgres"
	"poolScope/internal/store"
)

const projectionStateName = "projector"

func runProject(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadProject(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}
	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	network, err := project.ForNetwork(cfg.Network)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	pgStore, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pgStore.Close()

	decoder, err := dex.NewPoolDecoder()
	if err != nil {
		return err
	}

	resolver := dex.NewTokenResolver(chainClient, logger)
	entityStore := store.NewMemory()
	projector := project.NewProjector(entityStore, resolver, network, logger)

	inputFile, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	errWriter, err := newJSONLWriter(cfg.Errors, false)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	if lastEventID, ok, err := pgStore.LoadState(ctx, projectionStateName); err != nil {
		return fmt.Errorf("load projection state: %w", err)
	} else if ok {
		logger.Info("previous projection position", zap.String("last_event_id", lastEventID))
	}

	logger.Info("project start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("in", cfg.In),
		zap.String("errors", cfg.Errors),
		zap.String("network", network.Network),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Int("batch_size", cfg.BatchSize),
	)

	scanner := bufio.NewScanner(inputFile)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var total, applied, skipped, failed int
	var sinceFlush int
	var lastEventID string
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.LogRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			writeDecodeError(errWriter, model.DecodeError{Error: err.Error()})
			continue
		}
		if len(record.Topics) == 0 {
			failed++
			writeDecodeError(errWriter, decodeErrorFromRecord(record, fmt.Errorf("missing topic0")))
			continue
		}

		if !decoder.CanDecode(record.Topics[0]) {
			skipped++
			continue
		}

		event, err := decoder.Decode(record)
		if err != nil {
			failed++
			writeDecodeError(errWriter, decodeErrorFromRecord(record, err))
			continue
		}

		if err := projector.Apply(ctx, event); err != nil {
			return fmt.Errorf("apply event: %w", err)
		}
		applied++
		sinceFlush++
		lastEventID = model.EventID(event.TxHash, event.LogIndex)

		if sinceFlush >= cfg.BatchSize {
			if err := flushProjection(ctx, pgStore, entityStore, lastEventID); err != nil {
				return err
			}
			sinceFlush = 0
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if sinceFlush > 0 || applied == 0 {
		if err := flushProjection(ctx, pgStore, entityStore, lastEventID); err != nil {
			return err
		}
	}

	logger.Info("project complete",
		zap.Int("total", total),
		zap.Int("applied", applied),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}

func flushProjection(ctx context.Context, pgStore *postgres.Store, entityStore *store.Memory, lastEventID string) error {
	if err := pgStore.FlushChanges(ctx, entityStore); err != nil {
		return fmt.Errorf("flush projection: %w", err)
	}
	if lastEventID == "" {
		return nil
	}
	if err := pgStore.SaveState(ctx, projectionStateName, lastEventID); err != nil {
		return fmt.Errorf("save projection state: %w", err)
	}
	return nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newJSONLWriter(path string, appendMode bool) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func decodeErrorFromRecord(record model.LogRecord, err error) model.DecodeError {
	topic0 := ""
	if len(record.Topics) > 0 {
		topic0 = record.Topics[0]
	}

	return model.DecodeError{
		ChainID:     record.ChainID,
		BlockNumber: record.BlockNumber,
		TxHash:      record.TxHash,
		LogIndex:    record.LogIndex,
		Address:     record.Address,
		Topic0:      topic0,
		Error:       err.Error(),
	}
}

func writeDecodeError(writer *jsonlWriter, errRecord model.DecodeError) {
	if writer == nil {
		return
	}
	_ = writer.Write(errRecord)
}
