// Package adapter defines the notification boundary for finished exports.
//
// Adapters publish export completion events to downstream systems (build
// planners, dashboards, archival jobs). The host owns adapter lifecycle;
// users provide configuration only.
package adapter

import (
	"context"
	"time"

	"github.com/irminsul-dev/irminsul/export"
	"github.com/irminsul-dev/irminsul/types"
)

// EventTypeExportCompleted is the event_type value for export events.
const EventTypeExportCompleted = "export_completed"

// ExportCompletedEvent is the payload published when an export is written.
type ExportCompletedEvent struct {
	EventType      string `json:"event_type"` // always "export_completed"
	SessionID      string `json:"session_id"`
	UID            uint32 `json:"uid"`
	Day            string `json:"day"`
	DatasetVersion string `json:"dataset_version"`
	// StoragePath locates the written payload (local path or archive URI).
	StoragePath string `json:"storage_path"`
	Timestamp   string `json:"timestamp"` // ISO 8601
	// Counts maps category to exported record count.
	Counts map[string]int `json:"counts"`
	// Statuses maps category to its enumeration status at export time.
	Statuses map[string]string `json:"statuses"`
	// Unresolved is the number of records exported under fallback keys.
	Unresolved int `json:"unresolved"`
	// Complete is true when every required category finished enumerating.
	Complete bool `json:"complete"`
}

// NewExportCompletedEvent assembles the event from a snapshot and its
// export report.
func NewExportCompletedEvent(snap *types.Snapshot, report *export.Report, storagePath string, complete bool) *ExportCompletedEvent {
	ev := &ExportCompletedEvent{
		EventType:      EventTypeExportCompleted,
		SessionID:      snap.Meta.SessionID,
		UID:            snap.Meta.UID,
		Day:            snap.TakenAt.UTC().Format("2006-01-02"),
		DatasetVersion: report.DatasetVersion,
		StoragePath:    storagePath,
		Timestamp:      snap.TakenAt.UTC().Format(time.RFC3339),
		Counts:         map[string]int{},
		Statuses:       map[string]string{},
		Unresolved:     len(report.Unresolved),
		Complete:       complete,
	}
	for cat, n := range report.Counts {
		ev.Counts[string(cat)] = n
	}
	for cat, st := range snap.Statuses {
		ev.Statuses[string(cat)] = string(st)
	}
	return ev
}

// Adapter publishes export completion events to a downstream system.
type Adapter interface {
	// Publish sends an export completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *ExportCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
