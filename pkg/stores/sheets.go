package stores

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"github.com/agentstation/utc"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/logging"
)

// dashboardTab summarizes completion metrics; refreshed on every save.
const dashboardTab = "Dashboard"

// Sheets is a store backed by a Google Sheets spreadsheet with one
// worksheet tab per year partition plus a dashboard tab. Saves replace the
// whole tab range in one values update so a failed save never leaves a
// partially written tab.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
}

// Compile-time interface checks.
var (
	_ Store       = (*Sheets)(nil)
	_ Initializer = (*Sheets)(nil)
)

// NewSheets creates a Sheets store for the given spreadsheet. With an
// empty credentialsFile it falls back to Application Default Credentials,
// after a bounded preflight so a missing gcloud setup fails fast instead
// of hanging inside the first API call.
func NewSheets(ctx context.Context, spreadsheetID, credentialsFile string) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, &errors.ConfigError{
			Component: "sheets",
			Message:   "spreadsheet ID is required for the sheets backend",
		}
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	} else if err := detectDefaultCredentials(ctx); err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.WrapStore("sheets", "init", 0, err)
	}

	return &Sheets{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// detectDefaultCredentials verifies ADC is configured. DetectDefault does
// not accept a context, so it runs in a goroutine with a 2 second cap
// (realistic time is under 100ms).
func detectDefaultCredentials(ctx context.Context) error {
	type result struct {
		creds *auth.Credentials
		err   error
	}

	resultChan := make(chan result, 1)
	go func() {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes: []string{sheets.SpreadsheetsScope},
		})
		resultChan <- result{creds: creds, err: err}
	}()

	select {
	case res := <-resultChan:
		if res.err != nil {
			return &errors.ConfigError{
				Component: "sheets",
				Message:   "no valid credentials found - set a service account file or configure Application Default Credentials",
				Err:       res.err,
			}
		}
		return nil

	case <-time.After(2 * time.Second):
		return &errors.ConfigError{
			Component: "sheets",
			Message:   "credential detection timed out (2s) - likely not configured or network issue",
		}

	case <-ctx.Done():
		return &errors.ConfigError{
			Component: "sheets",
			Message:   "credential detection cancelled",
		}
	}
}

// tabName returns the worksheet title for a year partition.
func tabName(year int) string {
	return fmt.Sprintf("Conferences %d", year)
}

// Load reads the year partition tab. A missing or empty tab reports
// errors.ErrNotFound via the wrapped store error.
func (s *Sheets) Load(ctx context.Context, year int) ([]conferences.Conference, error) {
	rng := fmt.Sprintf("%s!A1:J", tabName(year))
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, errors.WrapStore("sheets", "load", year, err)
	}
	if len(resp.Values) == 0 {
		return nil, errors.NewStoreError("sheets", "load", year, errors.ErrNotFound)
	}

	cols := columnIndex(cellsToStrings(resp.Values[0]))
	records := make([]conferences.Conference, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		records = append(records, fromRow(cols, cellsToStrings(row)))
	}

	logging.Debug().Int("year", year).Int("records", len(records)).Msg("Loaded partition from sheets")
	return records, nil
}

// Save replaces the year partition tab: clear the range, then write header
// and rows in a single values update.
func (s *Sheets) Save(ctx context.Context, year int, records []conferences.Conference) error {
	tab := tabName(year)
	if err := s.ensureTab(ctx, tab); err != nil {
		return errors.WrapStore("sheets", "save", year, err)
	}

	values := make([][]interface{}, 0, len(records)+1)
	values = append(values, cellsFromStrings(header))
	for _, rec := range records {
		values = append(values, cellsFromStrings(toRow(rec)))
	}

	rng := fmt.Sprintf("%s!A1:J", tab)
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return errors.WrapStore("sheets", "save", year, err)
	}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, fmt.Sprintf("%s!A1", tab), &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return errors.WrapStore("sheets", "save", year, err)
	}

	if err := s.updateDashboard(ctx, year, records); err != nil {
		// Dashboard is advisory; the partition itself saved.
		logging.Warn().Err(err).Msg("Dashboard update failed")
	}

	logging.Info().Int("year", year).Int("records", len(records)).Str("tab", tab).Msg("Saved partition")
	return nil
}

// Init creates the dashboard tab so completion metrics have a home before
// the first save.
func (s *Sheets) Init(ctx context.Context) error {
	if err := s.ensureTab(ctx, dashboardTab); err != nil {
		return errors.WrapStore("sheets", "init", 0, err)
	}
	return nil
}

// ensureTab adds the worksheet if the spreadsheet does not have it yet.
func (s *Sheets) ensureTab(ctx context.Context, title string) error {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return err
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	return err
}

// dashboardMetrics is one year's block on the dashboard tab.
type dashboardMetrics struct {
	total    int
	complete int
}

// updateDashboard merges this partition's completion metrics into the
// dashboard, keeping the blocks other years already wrote.
func (s *Sheets) updateDashboard(ctx context.Context, year int, records []conferences.Conference) error {
	if err := s.ensureTab(ctx, dashboardTab); err != nil {
		return err
	}

	metrics := make(map[int]dashboardMetrics)
	if resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, dashboardTab+"!A1:B").Context(ctx).Do(); err == nil {
		rows := make([][]string, 0, len(resp.Values))
		for _, row := range resp.Values {
			rows = append(rows, cellsToStrings(row))
		}
		metrics = parseDashboard(rows)
	}

	complete := 0
	for _, rec := range records {
		if rec.Complete() {
			complete++
		}
	}
	metrics[year] = dashboardMetrics{total: len(records), complete: complete}

	grid := renderDashboard(metrics, utc.Now().Format(time.RFC3339))
	values := make([][]interface{}, 0, len(grid))
	for _, row := range grid {
		values = append(values, cellsFromStrings(row))
	}

	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, dashboardTab+"!A1:B", &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return err
	}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, dashboardTab+"!A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// renderDashboard builds the dashboard grid: a header row, one metric
// block per year in ascending order, and a trailing last-updated row.
func renderDashboard(metrics map[int]dashboardMetrics, updatedAt string) [][]string {
	years := make([]int, 0, len(metrics))
	for y := range metrics {
		years = append(years, y)
	}
	sort.Ints(years)

	grid := [][]string{{"Metric", "Value"}}
	for _, y := range years {
		m := metrics[y]
		rate := 0.0
		if m.total > 0 {
			rate = float64(m.complete) / float64(m.total) * 100
		}
		grid = append(grid,
			[]string{fmt.Sprintf("Total conferences %d", y), strconv.Itoa(m.total)},
			[]string{fmt.Sprintf("Complete %d", y), strconv.Itoa(m.complete)},
			[]string{fmt.Sprintf("Completion rate %d", y), fmt.Sprintf("%.1f%%", rate)},
		)
	}
	grid = append(grid, []string{"Last updated", updatedAt})
	return grid
}

// parseDashboard recovers per-year metrics from an existing grid so one
// year's save does not drop another year's block.
func parseDashboard(rows [][]string) map[int]dashboardMetrics {
	metrics := make(map[int]dashboardMetrics)
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		var year int
		if _, err := fmt.Sscanf(row[0], "Total conferences %d", &year); err == nil {
			if n, err := strconv.Atoi(strings.TrimSpace(row[1])); err == nil {
				m := metrics[year]
				m.total = n
				metrics[year] = m
			}
			continue
		}
		if _, err := fmt.Sscanf(row[0], "Complete %d", &year); err == nil {
			if n, err := strconv.Atoi(strings.TrimSpace(row[1])); err == nil {
				m := metrics[year]
				m.complete = n
				metrics[year] = m
			}
		}
	}
	return metrics
}

// cellsToStrings converts a sheets row into trimmed strings.
func cellsToStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = fmt.Sprint(cell)
	}
	return out
}

// cellsFromStrings converts strings into a sheets row.
func cellsFromStrings(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
