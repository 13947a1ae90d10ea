package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

const (
	csvFilePermissions = 0o644

	logEventRowSkipped = "feedback_row_skipped"
	logFieldPath       = "path"
	logFieldLine       = "line"
)

// CSVStore appends records to a flat comma-separated file with a header row.
type CSVStore struct {
	path   string
	logger *zap.Logger
}

// NewCSVStore builds a CSVStore for the file at path. The file is created on first Append.
func NewCSVStore(path string, logger *zap.Logger) *CSVStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVStore{path: path, logger: logger}
}

// Path returns the backing file location.
func (store *CSVStore) Path() string {
	return store.path
}

// Append writes record as one row, preceded by the header when the file is new or empty.
func (store *CSVStore) Append(ctx context.Context, record model.FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return writeError(err)
	}

	writeHeader := false
	info, statErr := os.Stat(store.path)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		writeHeader = true
	case statErr != nil:
		return writeError(statErr)
	case info.Size() == 0:
		writeHeader = true
	}

	file, openErr := os.OpenFile(store.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, csvFilePermissions)
	if openErr != nil {
		return writeError(openErr)
	}

	csvWriter := csv.NewWriter(file)
	if writeHeader {
		_ = csvWriter.Write(csvHeader)
	}
	_ = csvWriter.Write(encodeRow(record))
	csvWriter.Flush()

	flushErr := csvWriter.Error()
	closeErr := file.Close()
	if flushErr != nil || closeErr != nil {
		return writeError(errors.Join(flushErr, closeErr))
	}
	return nil
}

// List reads every well-formed row. A missing file yields no records and no error.
func (store *CSVStore) List(ctx context.Context) ([]model.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, readError(err)
	}

	file, openErr := os.Open(store.path)
	if errors.Is(openErr, fs.ErrNotExist) {
		return []model.FeedbackRecord{}, nil
	}
	if openErr != nil {
		return nil, readError(openErr)
	}
	defer func() { _ = file.Close() }()

	csvReader := csv.NewReader(file)
	csvReader.FieldsPerRecord = -1

	records := []model.FeedbackRecord{}
	rowNumber := 0
	for {
		fields, readErr := csvReader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		rowNumber++
		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				store.skipRow(parseErr.Line, readErr)
				continue
			}
			return nil, readError(readErr)
		}
		if rowNumber == 1 && isHeaderRow(fields) {
			continue
		}

		record, decodeErr := decodeRow(fields)
		if decodeErr != nil {
			line, _ := csvReader.FieldPos(0)
			store.skipRow(line, decodeErr)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Close is a no-op; the file is opened per operation.
func (store *CSVStore) Close() error {
	return nil
}

func (store *CSVStore) skipRow(line int, cause error) {
	store.logger.Warn(logEventRowSkipped,
		zap.String(logFieldPath, store.path),
		zap.Int(logFieldLine, line),
		zap.Error(cause),
	)
}
