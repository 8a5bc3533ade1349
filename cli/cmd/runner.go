// Package cmd implements the irminsul CLI commands.
//
// Exit codes:
//   - 0: success
//   - 1: configuration or usage error
//   - 2: stream failure during ingestion
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/irminsul-dev/irminsul/adapter"
	"github.com/irminsul-dev/irminsul/adapter/redis"
	"github.com/irminsul-dev/irminsul/adapter/webhook"
	"github.com/irminsul-dev/irminsul/cli/config"
	"github.com/irminsul-dev/irminsul/export"
	"github.com/irminsul-dev/irminsul/log"
	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/refdata"
	"github.com/irminsul-dev/irminsul/session"
	"github.com/irminsul-dev/irminsul/types"
)

// Exit codes.
const (
	exitSuccess     = 0
	exitConfigError = 1
	exitStreamError = 2
)

// env bundles the shared runtime pieces a command operates on.
type env struct {
	cfg       *config.Config
	logger    *log.Logger
	collector *metrics.Collector
	sess      *session.Session
	resolver  refdata.Resolver
}

// buildEnv loads configuration and constructs the session runtime.
// Flag values override config file values.
func buildEnv(c *cli.Context) (*env, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := c.String("refdata"); v != "" {
		cfg.Refdata = v
	}
	if v := c.String("output"); v != "" {
		cfg.Export.Output = v
	}
	if v := c.String("frame-log"); v != "" {
		cfg.Capture.FrameLog = v
	}

	table := refdata.NewTable(nil)
	if cfg.Refdata != "" {
		loaded, err := refdata.Load(cfg.Refdata)
		if err != nil {
			return nil, fmt.Errorf("loading reference dataset: %w", err)
		}
		table = loaded
	}

	collector := metrics.NewCollector("irminsul", "")
	sess := session.New(session.Config{
		Required:  cfg.RequiredCategories(),
		Collector: collector,
	})

	return &env{
		cfg:       cfg,
		logger:    log.NewLogger(sess.Meta()),
		collector: collector,
		sess:      sess,
		resolver:  table,
	}, nil
}

// exportSnapshot takes a snapshot and writes the GOOD payload to the
// configured output, archive, and adapter. Returns the primary storage
// path and the export report.
func exportSnapshot(ctx context.Context, e *env, output string) (string, *export.Report, error) {
	snap := e.sess.Snapshot()

	payload, report := export.Build(snap, e.resolver, e.cfg.Export.Filters)
	data, err := export.Encode(payload)
	if err != nil {
		return "", nil, err
	}
	e.collector.AddUnresolvedIdentities(int64(len(report.Unresolved)))

	storagePath := output
	if output != "" {
		if err := export.WriteFile(output, data); err != nil {
			return "", nil, err
		}
		e.collector.IncExportWritten()
		e.logger.Info("export written", map[string]any{
			"path":       output,
			"records":    snap.Count(),
			"unresolved": len(report.Unresolved),
		})
	}

	if e.cfg.Storage.Backend != "" {
		archivePath, err := archiveExport(ctx, e, snap, report, data)
		if err != nil {
			return "", nil, fmt.Errorf("archiving export: %w", err)
		}
		if storagePath == "" {
			storagePath = archivePath
		}
	}

	if e.cfg.Adapter.Type != "" {
		if err := publishExport(ctx, e, snap, report, storagePath); err != nil {
			// Notification failure does not invalidate a written export.
			e.logger.Warn("adapter publish failed", map[string]any{
				"type":  e.cfg.Adapter.Type,
				"error": err.Error(),
			})
		}
	}

	return storagePath, report, nil
}

// archiveExport writes the payload and report to the configured archive
// backend.
func archiveExport(ctx context.Context, e *env, snap *types.Snapshot, report *export.Report, data []byte) (string, error) {
	archCfg := export.ArchiveConfig{
		Dataset:   e.cfg.Storage.Dataset,
		UID:       fmt.Sprintf("%d", snap.Meta.UID),
		Day:       snap.TakenAt.UTC().Format("2006-01-02"),
		SessionID: snap.Meta.SessionID,
	}

	var (
		arch *export.Archive
		err  error
	)
	switch e.cfg.Storage.Backend {
	case "fs":
		arch, err = export.NewArchive(archCfg, e.cfg.Storage.Path)
	case "s3":
		bucket, prefix := export.ParseS3Path(e.cfg.Storage.Path)
		arch, err = export.NewArchiveS3(archCfg, export.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       e.cfg.Storage.Region,
			Endpoint:     e.cfg.Storage.Endpoint,
			UsePathStyle: e.cfg.Storage.S3PathStyle,
		})
	default:
		return "", fmt.Errorf("unknown storage backend %q", e.cfg.Storage.Backend)
	}
	if err != nil {
		return "", err
	}

	filename, err := arch.WritePayload(ctx, data, snap.TakenAt)
	if err != nil {
		return "", err
	}
	if err := arch.WriteReport(ctx, report, snap.TakenAt); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s://%s/%s", e.cfg.Storage.Backend, e.cfg.Storage.Path, filename), nil
}

// publishExport notifies the configured adapter.
func publishExport(ctx context.Context, e *env, snap *types.Snapshot, report *export.Report, storagePath string) error {
	var (
		pub adapter.Adapter
		err error
	)
	retries := -1
	if e.cfg.Adapter.Retries != nil {
		retries = *e.cfg.Adapter.Retries
	}

	switch e.cfg.Adapter.Type {
	case "redis":
		rc := redis.Config{
			URL:     e.cfg.Adapter.URL,
			Channel: e.cfg.Adapter.Channel,
			Timeout: e.cfg.Adapter.Timeout.Duration,
		}
		if retries >= 0 {
			rc.Retries = retries
		} else {
			rc.Retries = redis.DefaultRetries
		}
		pub, err = redis.New(rc)
	case "webhook":
		wc := webhook.Config{
			URL:     e.cfg.Adapter.URL,
			Headers: e.cfg.Adapter.Headers,
			Timeout: e.cfg.Adapter.Timeout.Duration,
		}
		if retries >= 0 {
			wc.Retries = retries
		} else {
			wc.Retries = webhook.DefaultRetries
		}
		pub, err = webhook.New(wc)
	default:
		return fmt.Errorf("unknown adapter type %q", e.cfg.Adapter.Type)
	}
	if err != nil {
		return err
	}
	defer pub.Close()

	event := adapter.NewExportCompletedEvent(snap, report, storagePath, e.sess.Complete())
	publishCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return pub.Publish(publishCtx, event)
}

// sessionSummary is the JSON document printed after capture and replay.
type sessionSummary struct {
	SessionID string                    `json:"session_id"`
	UID       uint32                    `json:"uid"`
	Complete  bool                      `json:"complete"`
	Counts    map[types.Category]int    `json:"counts"`
	Statuses  map[types.Category]string `json:"statuses"`
	Messages  int64                     `json:"messages_received"`
	Dropped   int64                     `json:"messages_dropped"`
}

// newSummary reads the current session state into a summary document.
func newSummary(e *env) *sessionSummary {
	meta := e.sess.Meta()
	s := &sessionSummary{
		SessionID: meta.SessionID,
		UID:       meta.UID,
		Complete:  e.sess.Complete(),
		Counts:    map[types.Category]int{},
		Statuses:  map[types.Category]string{},
	}
	for _, cat := range types.Categories() {
		s.Counts[cat] = e.sess.Count(cat)
		s.Statuses[cat] = string(e.sess.Status(cat))
	}
	snap := e.collector.Snapshot()
	s.Messages = snap.MessagesReceived
	s.Dropped = snap.MessagesDropped
	return s
}

// printSummary writes the summary as indented JSON to stdout.
func printSummary(e *env) error {
	data, err := json.MarshalIndent(newSummary(e), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
