// internal/pipeline/processor.go
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/oby500/bizinfo-automation-sub001/internal/encoding"
	"github.com/oby500/bizinfo-automation-sub001/internal/filetype"
	"github.com/oby500/bizinfo-automation-sub001/internal/monitoring"
	"github.com/oby500/bizinfo-automation-sub001/internal/scraper"
	"github.com/oby500/bizinfo-automation-sub001/internal/utils"
)

// Renderer runs a detail page through a real browser and returns the HTML
// after script execution. Used only when static extraction finds nothing.
type Renderer interface {
	RenderHTML(ctx context.Context, url string) (string, error)
}

// Options tune a Processor. Zero values get sensible defaults; Renderer and
// Metrics may stay nil.
type Options struct {
	Workers  int
	Renderer Renderer
	Metrics  *monitoring.Metrics
	Logger   utils.Logger
}

// Processor runs the attachment pipeline over announcement records with a
// bounded worker pool. Per-record failures are isolated: a failing record is
// marked failed and the batch continues.
type Processor struct {
	store      Store
	pool       *scraper.FetchPool
	classifier *filetype.Classifier
	renderer   Renderer
	metrics    *monitoring.Metrics
	logger     utils.Logger
	workers    int

	mu        sync.Mutex
	completed map[string]bool
}

func NewProcessor(store Store, pool *scraper.FetchPool, classifier *filetype.Classifier, opts Options) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = 10
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewComponentLogger("pipeline")
	}

	return &Processor{
		store:      store,
		pool:       pool,
		classifier: classifier,
		renderer:   opts.Renderer,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		workers:    opts.Workers,
		completed:  make(map[string]bool),
	}
}

type outcome int

const (
	outcomeNew outcome = iota
	outcomeUpdated
	outcomeFailed
	outcomeSkipped
)

// Run processes up to limit pending records for the given source ("" means
// all sources) and returns the batch summary. Records are independent and
// may complete in any order.
func (p *Processor) Run(ctx context.Context, source string, limit int) (Summary, error) {
	records, err := p.store.ListPending(ctx, source, limit)
	if err != nil {
		return Summary{}, fmt.Errorf("listing pending records: %w", err)
	}
	p.logger.WithFields(map[string]interface{}{
		"source": source,
		"count":  len(records),
	}).Info("starting batch")

	jobs := make(chan Announcement)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var summary Summary

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				result := p.processRecord(ctx, record)
				mu.Lock()
				switch result {
				case outcomeNew:
					summary.New++
				case outcomeUpdated:
					summary.Updated++
				case outcomeFailed:
					summary.Failed++
				case outcomeSkipped:
					summary.Skipped++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, record := range records {
		select {
		case jobs <- record:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return summary, ctx.Err()
}

// processRecord runs the pipeline for one announcement and settles its
// status. A worker that fails on one record never takes the batch down.
func (p *Processor) processRecord(ctx context.Context, record Announcement) outcome {
	if p.alreadyCompleted(record.ID) || record.Status == StatusCompleted {
		p.metrics.RecordProcessed(p.sourceOf(record), "skipped")
		return outcomeSkipped
	}

	source := p.sourceOf(record)
	log := p.logger.WithField("record", record.ID)
	start := time.Now()

	if err := p.store.SetStatus(ctx, record.ID, StatusProcessing); err != nil {
		log.WithField("error", err.Error()).Error("failed to claim record")
		return outcomeFailed
	}

	attachments, err := p.ProcessAnnouncement(ctx, record)
	if err != nil {
		log.WithField("error", err.Error()).Warn("record failed, eligible for retry")
		if serr := p.store.SetStatus(ctx, record.ID, StatusFailed); serr != nil {
			log.WithField("error", serr.Error()).Error("failed to mark record failed")
		}
		p.metrics.RecordProcessed(source, "failed")
		return outcomeFailed
	}

	created, err := p.store.ReplaceAttachments(ctx, record.ID, attachments)
	if err != nil {
		log.WithField("error", err.Error()).Error("failed to persist attachments")
		if serr := p.store.SetStatus(ctx, record.ID, StatusFailed); serr != nil {
			log.WithField("error", serr.Error()).Error("failed to mark record failed")
		}
		p.metrics.RecordProcessed(source, "failed")
		return outcomeFailed
	}

	p.markCompleted(record.ID)
	p.metrics.RecordProcessed(source, "completed")
	p.metrics.AttachmentsDiscovered(source, len(attachments))
	p.metrics.ObserveRecordDuration(source, time.Since(start))
	log.WithField("attachments", len(attachments)).Info("record completed")

	if created {
		return outcomeNew
	}
	return outcomeUpdated
}

// ProcessAnnouncement fetches the record's detail page and returns its
// normalized attachment list. When static extraction finds nothing and a
// renderer is configured, the page gets one browser pass; renderer failure
// degrades to an empty list, it never fails the record.
func (p *Processor) ProcessAnnouncement(ctx context.Context, record Announcement) ([]Attachment, error) {
	adapter, err := scraper.ForAnnouncement(record.ID, record.DetailURL)
	if err != nil {
		return nil, err
	}

	doc, err := p.pool.GetHTML(ctx, record.DetailURL)
	if err != nil {
		return nil, fmt.Errorf("fetching detail page: %w", err)
	}

	candidates := adapter.Extract(doc)
	if len(candidates) == 0 && p.renderer != nil {
		candidates = p.renderCandidates(ctx, record, adapter)
	}

	return p.buildAttachments(ctx, record, adapter.Name(), candidates)
}

// ProcessHTML is the alternative entry point for collaborators that already
// downloaded the detail page.
func (p *Processor) ProcessHTML(ctx context.Context, record Announcement, html string) ([]Attachment, error) {
	adapter, err := scraper.ForAnnouncement(record.ID, record.DetailURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing supplied HTML: %w", err)
	}

	return p.buildAttachments(ctx, record, adapter.Name(), adapter.Extract(doc))
}

func (p *Processor) renderCandidates(ctx context.Context, record Announcement, adapter scraper.Adapter) []scraper.Candidate {
	html, err := p.renderer.RenderHTML(ctx, record.DetailURL)
	if err != nil {
		p.logger.WithFields(map[string]interface{}{
			"record": record.ID,
			"error":  err.Error(),
		}).Warn("browser render failed, keeping empty result")
		return nil
	}
	p.metrics.BrowserRendered()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return adapter.Extract(doc)
}

// buildAttachments deduplicates the candidates and classifies each unique
// one. Probes for different attachments of the same record run concurrently;
// the final list keeps first-seen discovery order.
func (p *Processor) buildAttachments(ctx context.Context, record Announcement, source string, candidates []scraper.Candidate) ([]Attachment, error) {
	p.metrics.CandidatesExtracted(source, len(candidates))

	var base *url.URL
	if record.DetailURL != "" {
		if u, err := url.Parse(record.DetailURL); err == nil {
			base = u
		}
	}

	uniques := deduplicate(candidates, base)
	attachments := make([]Attachment, len(uniques))

	var wg sync.WaitGroup
	for i, uc := range uniques {
		wg.Add(1)
		go func(i int, uc unique) {
			defer wg.Done()
			attachments[i] = p.buildOne(ctx, record.ID, i, uc)
		}(i, uc)
	}
	wg.Wait()

	return attachments, nil
}

// buildOne normalizes a single unique candidate: filename recovery first,
// then classification, then display/safe name assignment.
func (p *Processor) buildOne(ctx context.Context, recordID string, idx int, uc unique) Attachment {
	name := encoding.Recover(uc.Text)
	if name != uc.Text {
		p.metrics.FilenameRecovered()
	}

	res := p.classifier.Classify(ctx, filetype.Input{
		URL:          uc.CanonicalURL,
		Filename:     name,
		DeclaredType: uc.DeclaredType,
	})
	p.metrics.TypeDetected(string(res.Type), res.DetectedBy)

	display := res.Filename
	if filetype.IsPlaceholderName(display) {
		display = fmt.Sprintf("첨부파일_%d", idx+1)
	}

	return Attachment{
		SourceURL:        uc.SourceURL,
		CanonicalURL:     uc.CanonicalURL,
		DeclaredType:     uc.DeclaredType,
		DetectedType:     res.Type,
		MIMEType:         res.Type.MIME(),
		DetectedBy:       res.DetectedBy,
		DisplayFilename:  display,
		OriginalFilename: uc.Text,
		SafeFilename:     fmt.Sprintf("%s_%02d.%s", recordID, idx+1, res.Type.Ext()),
		Size:             res.Size,
	}
}

func (p *Processor) sourceOf(record Announcement) string {
	if record.Source != "" {
		return record.Source
	}
	if adapter, err := scraper.ForAnnouncement(record.ID, record.DetailURL); err == nil {
		return adapter.Name()
	}
	return "unknown"
}

func (p *Processor) alreadyCompleted(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed[id]
}

func (p *Processor) markCompleted(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed[id] = true
}
