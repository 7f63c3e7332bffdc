package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"parkingspots/internal/entities"
)

const (
	defaultScanBatch      = 1000
	defaultRequestTimeout = 30 * time.Second
	maxErrorBodyBytes     = 4096
)

// HBaseStore talks to the HBase REST gateway (Stargate) using its JSON representation.
type HBaseStore struct {
	base   *url.URL
	client *http.Client
	logger *zap.Logger
	batch  int
}

func NewHBaseStore(base *url.URL, client *http.Client, logger *zap.Logger) *HBaseStore {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HBaseStore{base: base, client: client, logger: logger, batch: defaultScanBatch}
}

type cellSet struct {
	Row []cellSetRow `json:"Row"`
}

type cellSetRow struct {
	Key  string        `json:"key"`
	Cell []cellSetCell `json:"Cell"`
}

type cellSetCell struct {
	Column    string `json:"column"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Value     string `json:"$"`
}

type scannerSpec struct {
	Batch       int `json:"batch"`
	MaxVersions int `json:"maxVersions"`
}

func (s *HBaseStore) endpoint(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.TrimRight(s.base.String(), "/") + "/" + strings.Join(escaped, "/")
}

func (s *HBaseStore) Scan(ctx context.Context, table string, maxVersions int) ([]entities.Cell, error) {
	scanner, err := s.openScanner(ctx, table, maxVersions)
	if err != nil {
		return nil, err
	}
	defer s.closeScanner(scanner)

	var cells []entities.Cell
	for {
		batch, done, err := s.nextBatch(ctx, scanner)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		cells = append(cells, batch...)
	}
	s.logger.Debug("hbase scan complete", zap.String("table", table), zap.Int("cells", len(cells)))
	return cells, nil
}

func (s *HBaseStore) openScanner(ctx context.Context, table string, maxVersions int) (string, error) {
	if maxVersions <= 0 {
		maxVersions = 1
	}
	body, err := json.Marshal(scannerSpec{Batch: s.batch, MaxVersions: maxVersions})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint(table, "scanner"), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("hbase: open scanner on %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", statusError("open scanner on "+table, resp)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("hbase: open scanner on %s: no Location header", table)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("hbase: parse scanner location: %w", err)
	}
	return s.base.ResolveReference(ref).String(), nil
}

func (s *HBaseStore) nextBatch(ctx context.Context, scanner string) ([]entities.Cell, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scanner, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("hbase: read scanner: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, true, nil
	case http.StatusOK:
	default:
		return nil, false, statusError("read scanner", resp)
	}

	var set cellSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, false, fmt.Errorf("hbase: decode cell set: %w", err)
	}
	cells, err := flattenCellSet(set)
	if err != nil {
		return nil, false, err
	}
	return cells, false, nil
}

// closeScanner releases server-side scanner state; failures only cost the gateway memory.
func (s *HBaseStore) closeScanner(scanner string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, scanner, nil)
	if err != nil {
		return
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("hbase: delete scanner", zap.String("scanner", scanner), zap.Error(err))
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func flattenCellSet(set cellSet) ([]entities.Cell, error) {
	var cells []entities.Cell
	for _, row := range set.Row {
		key, err := base64.StdEncoding.DecodeString(row.Key)
		if err != nil {
			return nil, fmt.Errorf("hbase: decode row key: %w", err)
		}
		for _, c := range row.Cell {
			column, err := base64.StdEncoding.DecodeString(c.Column)
			if err != nil {
				return nil, fmt.Errorf("hbase: decode column of row %q: %w", key, err)
			}
			value, err := base64.StdEncoding.DecodeString(c.Value)
			if err != nil {
				return nil, fmt.Errorf("hbase: decode value of %q/%q: %w", key, column, err)
			}
			cells = append(cells, entities.Cell{
				RowKey:    string(key),
				Column:    string(column),
				Timestamp: c.Timestamp,
				Value:     value,
			})
		}
	}
	return cells, nil
}

func (s *HBaseStore) Put(ctx context.Context, table, rowKey string, columns []entities.ColumnValue) error {
	if len(columns) == 0 {
		return errors.New("hbase: put with no columns")
	}
	row := cellSetRow{Key: base64.StdEncoding.EncodeToString([]byte(rowKey))}
	for _, c := range columns {
		row.Cell = append(row.Cell, cellSetCell{
			Column: base64.StdEncoding.EncodeToString([]byte(c.Column)),
			Value:  base64.StdEncoding.EncodeToString(c.Value),
		})
	}
	body, err := json.Marshal(cellSet{Row: []cellSetRow{row}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint(table, rowKey, columns[0].Column), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("hbase: put %s/%s: %w", table, rowKey, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(fmt.Sprintf("put %s/%s", table, rowKey), resp)
	}
	return nil
}

func (s *HBaseStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint("version", "cluster"), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/plain")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("hbase: ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError("ping", resp)
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return fmt.Errorf("hbase: %s: unexpected status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(msg)))
}
