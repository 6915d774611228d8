package exports

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rentcore/internal/blob"
	"rentcore/internal/reporting"
)

// Status describes the lifecycle stage of an export request.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Artifact captures one stored report rendering.
type Artifact struct {
	Key         string         `json:"key"`
	Format      Format         `json:"format"`
	ContentType string         `json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	URL         string         `json:"url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Record tracks an export request and its resulting artifacts.
type Record struct {
	ID          string         `json:"id"`
	Template    string         `json:"template"`
	Title       string         `json:"title"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Formats     []Format       `json:"formats"`
	Status      Status         `json:"status"`
	Error       string         `json:"error,omitempty"`
	Artifacts   []Artifact     `json:"artifacts,omitempty"`
	RequestedBy string         `json:"requested_by"`
	Reason      string         `json:"reason,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// Request enqueues one report export.
type Request struct {
	TemplateSlug string
	Parameters   map[string]any
	Formats      []Format
	RequestedBy  string
	Reason       string
}

// SnapshotFunc supplies the document snapshot a report runs against.
type SnapshotFunc func(ctx context.Context) (reporting.Document, error)

// AuditLogger records export lifecycle entries.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry captures audit trail metadata for exports.
type AuditEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor"`
	Template   string         `json:"template"`
	Status     Status         `json:"status"`
	Reason     string         `json:"reason,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Worker renders report exports asynchronously.
type Worker struct {
	catalog  *Catalog
	snapshot SnapshotFunc
	store    blob.Store
	audit    AuditLogger

	queue chan exportTask
	mu    sync.RWMutex
	jobs  map[string]*Record

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type exportTask struct {
	id    string
	input Request
}

// NewWorker constructs a worker with a bounded queue. Artifacts are written
// to store; a nil audit logger disables the trail.
func NewWorker(catalog *Catalog, snapshot SnapshotFunc, store blob.Store, audit AuditLogger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		catalog:  catalog,
		snapshot: snapshot,
		store:    store,
		audit:    audit,
		queue:    make(chan exportTask, 32),
		jobs:     make(map[string]*Record),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits until the loop drains.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task := <-w.queue:
			w.process(task)
		}
	}
}

// Enqueue validates and schedules an export, returning the queued record.
func (w *Worker) Enqueue(ctx context.Context, input Request) (Record, error) {
	if w.catalog == nil {
		return Record{}, fmt.Errorf("export catalog not configured")
	}
	slug := strings.TrimSpace(input.TemplateSlug)
	if slug == "" {
		return Record{}, fmt.Errorf("template slug required")
	}
	template, ok := w.catalog.Resolve(slug)
	if !ok {
		return Record{}, fmt.Errorf("report template %s not found", slug)
	}

	formats := input.Formats
	if len(formats) == 0 {
		formats = []Format{FormatJSON, FormatCSV}
	}
	uniq := make([]Format, 0, len(formats))
	seen := make(map[Format]struct{})
	for _, format := range formats {
		if _, dup := seen[format]; dup {
			continue
		}
		if !template.SupportsFormat(format) {
			return Record{}, fmt.Errorf("format %s not supported by template %s", format, slug)
		}
		uniq = append(uniq, format)
		seen[format] = struct{}{}
	}

	id := newID()
	now := time.Now().UTC()
	record := Record{
		ID:          id,
		Template:    slug,
		Title:       template.Title,
		Parameters:  cloneParams(input.Parameters),
		Formats:     uniq,
		Status:      StatusQueued,
		RequestedBy: input.RequestedBy,
		Reason:      input.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	w.mu.Lock()
	w.jobs[id] = &record
	queued := record.copy()
	w.mu.Unlock()

	w.recordAudit(ctx, slug, input.RequestedBy, StatusQueued, input.Reason, nil)

	select {
	case w.queue <- exportTask{id: id, input: input}:
	default:
		w.mu.Lock()
		delete(w.jobs, id)
		w.mu.Unlock()
		return Record{}, fmt.Errorf("export queue full")
	}
	return queued, nil
}

// Get returns a snapshot of the export record.
func (w *Worker) Get(id string) (Record, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return Record{}, false
	}
	return record.copy(), true
}

// List returns snapshots of every tracked export, newest first.
func (w *Worker) List() []Record {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Record, 0, len(w.jobs))
	for _, record := range w.jobs {
		out = append(out, record.copy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (w *Worker) process(task exportTask) {
	record, ok := w.Get(task.id)
	if !ok {
		return
	}

	template, ok := w.catalog.Resolve(record.Template)
	if !ok {
		w.fail(task.id, fmt.Sprintf("template %s missing", record.Template))
		return
	}

	w.updateStatus(task.id, StatusRunning, "")

	doc, err := w.snapshot(w.ctx)
	if err != nil {
		w.fail(task.id, fmt.Sprintf("document snapshot failed: %v", err))
		return
	}
	rows, err := template.Build(doc, record.Parameters)
	if err != nil {
		w.fail(task.id, fmt.Sprintf("build report failed: %v", err))
		return
	}

	artifacts := make([]Artifact, 0, len(record.Formats))
	for _, format := range record.Formats {
		rendered, err := render(format, template, rows)
		if err != nil {
			w.fail(task.id, err.Error())
			return
		}
		artifact := Artifact{
			Key:         fmt.Sprintf("exports/%s/%s.%s", task.id, template.Slug, format),
			Format:      format,
			ContentType: rendered.contentType,
			SizeBytes:   int64(len(rendered.payload)),
			Metadata:    map[string]any{"rows": len(rows)},
			CreatedAt:   time.Now().UTC(),
		}
		if w.store != nil {
			info, err := w.store.Put(w.ctx, artifact.Key, bytes.NewReader(rendered.payload), blob.PutOptions{
				ContentType: rendered.contentType,
				Metadata:    map[string]string{"template": template.Slug, "format": string(format)},
			})
			if err != nil {
				w.fail(task.id, fmt.Sprintf("store artifact failed: %v", err))
				return
			}
			artifact.URL = info.URL
			if info.Size > 0 {
				artifact.SizeBytes = info.Size
			}
		}
		artifacts = append(artifacts, artifact)
	}

	w.complete(task.id, artifacts)
}

func (w *Worker) updateStatus(id string, status Status, message string) {
	now := time.Now().UTC()
	var slug, actor string
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = status
		record.Error = message
		record.UpdatedAt = now
		slug, actor = record.Template, record.RequestedBy
	}
	w.mu.Unlock()
	w.recordAudit(w.ctx, slug, actor, status, "", nil)
}

func (w *Worker) complete(id string, artifacts []Artifact) {
	now := time.Now().UTC()
	var slug, actor string
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = StatusSucceeded
		record.Error = ""
		record.Artifacts = artifacts
		record.UpdatedAt = now
		record.CompletedAt = &now
		slug, actor = record.Template, record.RequestedBy
	}
	w.mu.Unlock()
	w.recordAudit(w.ctx, slug, actor, StatusSucceeded, "", map[string]any{"artifacts": len(artifacts)})
}

func (w *Worker) fail(id, reason string) {
	now := time.Now().UTC()
	var slug, actor string
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = StatusFailed
		record.Error = reason
		record.UpdatedAt = now
		record.CompletedAt = &now
		slug, actor = record.Template, record.RequestedBy
	}
	w.mu.Unlock()
	w.recordAudit(w.ctx, slug, actor, StatusFailed, "", map[string]any{"error": reason})
}

func (w *Worker) recordAudit(ctx context.Context, template, actor string, status Status, reason string, metadata map[string]any) {
	if w.audit == nil {
		return
	}
	w.audit.Record(ctx, AuditEntry{
		ID:         newID(),
		Action:     "report_export",
		Actor:      actor,
		Template:   template,
		Status:     status,
		Reason:     reason,
		Metadata:   metadata,
		OccurredAt: time.Now().UTC(),
	})
}

func (r Record) copy() Record {
	dup := r
	dup.Parameters = cloneParams(r.Parameters)
	dup.Formats = append([]Format(nil), r.Formats...)
	if len(r.Artifacts) > 0 {
		dup.Artifacts = append([]Artifact(nil), r.Artifacts...)
	}
	return dup
}

func cloneParams(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", b[:])
}

// MemoryAuditLog captures audit entries in memory for assertions.
type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// Record stores an audit entry.
func (l *MemoryAuditLog) Record(_ context.Context, entry AuditEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Entries returns a defensive copy of recorded entries.
func (l *MemoryAuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
