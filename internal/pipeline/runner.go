package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"bollette/internal/aggregate"
	"bollette/internal/core"
	"bollette/internal/draft"
	"bollette/internal/extract"
	"bollette/internal/policy"
	"bollette/internal/roster"
	"bollette/internal/storage"
	"bollette/internal/transport"
)

// Recorder appends normalized bills to durable storage.
type Recorder interface {
	AppendBills(ctx context.Context, rows []storage.StoredBill) (inserted, skipped int, err error)
}

// Diagnostic records why one document or house dropped out of the run.
type Diagnostic struct {
	Source string // file name or house number
	Stage  string // classify, extract, normalize, roster, draft, deliver
	Detail string
}

// Report summarizes one batch run. A run with diagnostics is still a
// successful run; only setup failures abort the batch.
type Report struct {
	Documents int
	Records   int
	Inserted  int
	Deduped   int
	Drafts    []core.DraftContent
	Diags     []Diagnostic
}

// Runner wires the stages together. Documents are processed one at a time,
// in source order; a failure in one never aborts the rest.
type Runner struct {
	Source     DocumentSource
	Classifier *extract.Classifier
	Strategy   extract.HouseStrategy
	Roster     roster.Directory
	Policies   *policy.Engine
	Builder    *draft.Builder
	Transport  transport.Transport
	Recorder   Recorder // optional; nil skips record-keeping

	// OverrideMonth selects a fixed billing month (1-12) instead of each
	// house's latest. Zero means latest-month selection. OverrideYear is
	// only read when OverrideMonth is set.
	OverrideMonth int
	OverrideYear  int
}

func (r *Runner) Run(ctx context.Context) (Report, error) {
	var report Report

	docs, failures, err := r.Source.Documents(ctx)
	if err != nil {
		return report, fmt.Errorf("list documents: %w", err)
	}
	for _, ferr := range failures {
		report.diag("", "read", ferr)
	}
	report.Documents = len(docs)

	records := r.extractAll(ctx, docs, &report)
	report.Records = len(records)

	if r.Recorder != nil {
		if err := r.record(ctx, records, &report); err != nil {
			return report, err
		}
	}

	periods, err := r.aggregate(records)
	if err != nil {
		return report, err
	}

	for _, period := range periods {
		r.deliverHouse(ctx, period, &report)
	}

	slog.InfoContext(ctx, "Run complete",
		"documents", report.Documents,
		"records", report.Records,
		"drafts", len(report.Drafts),
		"diagnostics", len(report.Diags))
	return report, nil
}

func (r *Runner) extractAll(ctx context.Context, docs []core.RawDocument, report *Report) []core.BillRecord {
	houses := r.Roster.HouseNumbers()
	extractors := make(map[core.Vendor]extract.Extractor)

	var records []core.BillRecord
	for _, doc := range docs {
		vendor, err := r.Classifier.Classify(doc)
		if err != nil {
			report.diag(doc.Source, "classify", err)
			continue
		}

		ex, ok := extractors[vendor]
		if !ok {
			ex, err = extract.ForVendor(vendor, houses, r.Strategy)
			if err != nil {
				report.diag(doc.Source, "extract", err)
				continue
			}
			extractors[vendor] = ex
		}

		raw, err := ex.Extract(doc)
		if err != nil {
			report.diag(doc.Source, "extract", err)
			continue
		}

		rec := core.Normalize(raw)
		if !rec.Recordable() {
			report.diag(doc.Source, "normalize",
				fmt.Errorf("missing house or bill date, record dropped"))
			continue
		}
		if rec.Amount == nil {
			slog.WarnContext(ctx, "Bill amount unreadable, excluded from totals",
				"source", doc.Source, "house", rec.HouseNumber)
		}
		records = append(records, rec)
	}
	return records
}

func (r *Runner) record(ctx context.Context, records []core.BillRecord, report *Report) error {
	rows := make([]storage.StoredBill, 0, len(records))
	for _, rec := range records {
		tenant := ""
		if profile, err := r.Roster.Profile(rec.HouseNumber); err == nil {
			tenant = profile.TenantName
		}
		rows = append(rows, storage.FromRecord(rec, tenant))
	}

	inserted, skipped, err := r.Recorder.AppendBills(ctx, rows)
	if err != nil {
		return fmt.Errorf("append bills: %w", err)
	}
	report.Inserted = inserted
	report.Deduped = skipped
	return nil
}

func (r *Runner) aggregate(records []core.BillRecord) ([]core.HouseBillingPeriod, error) {
	if r.OverrideMonth != 0 {
		periods, err := aggregate.FixedMonth(records, r.OverrideMonth, r.OverrideYear)
		if err != nil {
			return nil, fmt.Errorf("fixed-month aggregation: %w", err)
		}
		return periods, nil
	}
	return aggregate.LatestMonth(records), nil
}

func (r *Runner) deliverHouse(ctx context.Context, period core.HouseBillingPeriod, report *Report) {
	profile, err := r.Roster.Profile(period.HouseNumber)
	if err != nil {
		report.diag(period.HouseNumber, "roster", err)
		return
	}

	pol := r.Policies.For(period.HouseNumber)
	content, err := r.Builder.Build(period, profile, pol)
	if err != nil {
		report.diag(period.HouseNumber, "draft", err)
		return
	}

	if err := r.Transport.Deliver(ctx, content); err != nil {
		report.diag(period.HouseNumber, "deliver",
			&core.TransportError{HouseNumber: period.HouseNumber, Err: err})
		return
	}
	report.Drafts = append(report.Drafts, content)
}

func (r *Report) diag(source, stage string, err error) {
	r.Diags = append(r.Diags, Diagnostic{Source: source, Stage: stage, Detail: err.Error()})
	slog.Warn("Document dropped from run", "source", source, "stage", stage, "error", err)
}
