package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/justapithecus/lode/lode"

	"github.com/irminsul-dev/irminsul/types"
)

// DefaultDataset is the dataset id exports archive under.
const DefaultDataset = "irminsul-exports"

// ArchiveConfig identifies the Hive partition one session's exports land in.
type ArchiveConfig struct {
	// Dataset is the Lode dataset id, DefaultDataset when empty.
	Dataset string
	// UID is the account identifier from the handshake.
	UID string
	// Day is the export date, YYYY-MM-DD UTC.
	Day string
	// SessionID is the capture session id.
	SessionID string
}

func (c *ArchiveConfig) normalize() {
	if c.Dataset == "" {
		c.Dataset = DefaultDataset
	}
}

// Archive persists export payloads and reports to Lode-backed storage,
// Hive-partitioned by uid/day/session_id. Payload files are written as
// sidecars under files/; reports go through the dataset as JSONL records.
type Archive struct {
	dataset lode.Dataset
	config  ArchiveConfig

	storeFactory lode.StoreFactory
	storeOnce    sync.Once
	store        lode.Store
	storeErr     error
}

// NewArchive creates an archive with filesystem storage rooted at root.
func NewArchive(cfg ArchiveConfig, root string) (*Archive, error) {
	return NewArchiveWithFactory(cfg, lode.NewFSFactory(root))
}

// NewArchiveWithFactory creates an archive with a custom store factory.
// Use lode.NewMemoryFactory() for testing.
func NewArchiveWithFactory(cfg ArchiveConfig, factory lode.StoreFactory) (*Archive, error) {
	cfg.normalize()

	ds, err := lode.NewDataset(
		lode.DatasetID(cfg.Dataset),
		factory,
		lode.WithHiveLayout("uid", "day", "session_id"),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating archive dataset: %w", err)
	}

	return &Archive{
		dataset:      ds,
		config:       cfg,
		storeFactory: factory,
	}, nil
}

// WriteReport appends the export report to the archive dataset.
func (a *Archive) WriteReport(ctx context.Context, report *Report, takenAt time.Time) error {
	record := map[string]any{
		"uid":             a.config.UID,
		"day":             a.config.Day,
		"session_id":      a.config.SessionID,
		"record_kind":     "export_report",
		"dataset_version": report.DatasetVersion,
		"unresolved":      len(report.Unresolved),
		"exported_at":     takenAt.UTC().Format(time.RFC3339),
	}
	for _, cat := range types.Categories() {
		record["count_"+string(cat)] = report.Counts[cat]
		record["filtered_"+string(cat)] = report.Filtered[cat]
	}

	if _, err := a.dataset.Write(ctx, []any{record}, lode.Metadata{}); err != nil {
		return fmt.Errorf("writing export report: %w", err)
	}
	return nil
}

// PutFile writes a sidecar file at the archive's Hive path, bypassing the
// dataset segment machinery. The filename must not contain path
// separators or "..".
func (a *Archive) PutFile(ctx context.Context, filename string, data []byte) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	store, err := a.getOrCreateStore()
	if err != nil {
		return fmt.Errorf("archive store init failed: %w", err)
	}

	return store.Put(ctx, a.buildFilePath(filename), bytes.NewReader(data))
}

// WritePayload archives an encoded GOOD payload under a deterministic
// filename and returns the sidecar filename used.
func (a *Archive) WritePayload(ctx context.Context, data []byte, takenAt time.Time) (string, error) {
	filename := fmt.Sprintf("good-%s.json", takenAt.UTC().Format("20060102T150405Z"))
	if err := a.PutFile(ctx, filename, data); err != nil {
		return "", err
	}
	return filename, nil
}

// getOrCreateStore lazily initializes the Store from the factory.
func (a *Archive) getOrCreateStore() (lode.Store, error) {
	a.storeOnce.Do(func() {
		a.store, a.storeErr = a.storeFactory()
	})
	return a.store, a.storeErr
}

// buildFilePath computes the Hive-partitioned path for a sidecar file.
// Format: datasets/<dataset>/partitions/uid=<u>/day=<d>/session_id=<s>/files/<filename>
func (a *Archive) buildFilePath(filename string) string {
	return fmt.Sprintf("datasets/%s/partitions/uid=%s/day=%s/session_id=%s/files/%s",
		a.config.Dataset,
		a.config.UID,
		a.config.Day,
		a.config.SessionID,
		filename,
	)
}

func validateFilename(filename string) error {
	if filename == "" {
		return errors.New("archive filename is empty")
	}
	if strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return fmt.Errorf("archive filename %q contains path elements", filename)
	}
	return nil
}
