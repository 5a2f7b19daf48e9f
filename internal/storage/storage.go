package storage

import "poolScope/internal/model"

// Storage defines a sink for log records.
type Storage interface {
	PutLogBatch(logs []model.LogRecord) error
}
