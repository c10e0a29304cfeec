package http

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/ledger"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.startedAt).String(),
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(health)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	// A summary read touches the data backend end to end
	if s.summaries != nil {
		now := time.Now()
		if _, err := s.summaries.ReadMonthSummary(ctx, now.Year(), int(now.Month())); err != nil {
			checks["storage"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	} else {
		checks["storage"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	checks["cache"] = map[string]interface{}{
		"summary_entries": s.summaryCache.Size(),
		"items_entries":   s.itemsCache.Size(),
		"hits":            atomic.LoadInt64(&s.appMetrics.cacheHits),
		"misses":          atomic.LoadInt64(&s.appMetrics.cacheMisses),
	}
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// categoryOption carries the per-category data the entry form needs.
type categoryOption struct {
	Name        string
	Unit        string
	DefaultMode string
	Modes       []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	var opts []categoryOption
	for _, c := range core.Categories() {
		opts = append(opts, categoryOption{
			Name:        string(c),
			Unit:        c.Unit(),
			DefaultMode: core.DefaultMode(c),
			Modes:       core.ModesFor(c),
		})
	}

	data := struct {
		Today      string
		Year       int
		Month      int
		Categories []categoryOption
	}{
		Today:      now.Format("2006-01-02"),
		Year:       now.Year(),
		Month:      int(now.Month()),
		Categories: opts,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "method", r.Method, "url", r.URL.Path)
		resp.Write(w)
		return
	}

	dateStr := strings.TrimSpace(r.Form.Get("date"))
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		UnprocessableEntityError("Invalid date").
			TriggerErrorNotification("Invalid date").
			Write(w)
		return
	}

	category := core.Category(sanitizeInput(r.Form.Get("category")))
	mode := sanitizeInput(r.Form.Get("mode"))
	quantityStr := strings.TrimSpace(r.Form.Get("quantity"))

	quantity, err := core.ParseQuantity(quantityStr)
	if err != nil {
		UnprocessableEntityError("Invalid quantity").
			TriggerErrorNotification("Invalid quantity").
			Write(w)
		return
	}

	emission, err := core.Compute(category, mode, quantity)
	if err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).
			TriggerErrorNotification("Activity not recorded").
			Write(w)
		return
	}
	if mode == "" {
		mode = core.DefaultMode(category)
	}

	activity := core.Activity{
		Date:     date,
		Category: category,
		Mode:     mode,
		Quantity: quantity,
		Emission: emission,
	}

	id, err := s.writer.Append(r.Context(), activity)
	if err != nil {
		if core.IsValidationError(err) {
			UnprocessableEntityError("Invalid data: " + err.Error()).
				TriggerErrorNotification("Activity not recorded").
				Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to save activity",
			"error", err,
			"category", category,
			"quantity_milli", quantity.Milli,
			"emission_grams", emission.Grams,
			"operation", "append")
		InternalServerError("Error saving activity").
			TriggerErrorNotification("Error saving activity").
			Write(w)
		return
	}

	atomic.AddInt64(&s.appMetrics.totalActivities, 1)

	slog.InfoContext(r.Context(), "Activity created",
		"id", id,
		"date", date.ISO(),
		"category", category,
		"mode", mode,
		"quantity_milli", quantity.Milli,
		"emission_grams", emission.Grams)

	year, month := date.Year(), date.Month()
	s.invalidateMonth(year, month)

	body := `<div class="success">Recorded ` +
		template.HTMLEscapeString(core.FormatQuantity(quantity)) + ` ` +
		template.HTMLEscapeString(category.Unit()) + ` of ` +
		template.HTMLEscapeString(string(category)) +
		` — estimated ` + template.HTMLEscapeString(formatKg(emission.Grams)) + ` CO₂</div>`

	NewHTMXResponse().
		TriggerActivityCreated(year, month).
		TriggerFormReset().
		TriggerSuccessNotification("Activity recorded").
		BodyHTML(body).
		Write(w)
}

// handleMonthSummary renders the monthly emission summary partial
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	params := ParseMonthParams(r.URL.Query())

	summary, err := s.getSummary(r.Context(), params.Year, params.Month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month summary error", "error", err, "year", params.Year, "month", params.Month)
		_, _ = w.Write([]byte(`<section id="month-summary" class="month-summary"><div class="placeholder">Error loading summary</div></section>`))
		return
	}
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="month-summary" class="month-summary"><div class="placeholder">Total: ` + formatKg(summary.Total.Grams) + `</div></section>`))
		return
	}

	// Compute max category for progress scaling
	var maxGrams int64
	var maxName string
	for _, ce := range summary.ByCategory {
		if ce.Emission.Grams > maxGrams {
			maxGrams = ce.Emission.Grams
			maxName = string(ce.Category)
		}
	}
	type row struct {
		Name, Amount string
		Width        int
	}
	data := struct {
		Year    int
		Month   int
		Total   string
		MaxName string
		Max     string
		Rows    []row
	}{Year: summary.Year, Month: summary.Month, Total: formatKg(summary.Total.Grams), MaxName: maxName, Max: formatKg(maxGrams)}

	for _, ce := range summary.ByCategory {
		width := 0
		if maxGrams > 0 && ce.Emission.Grams > 0 {
			width = int((ce.Emission.Grams*100 + maxGrams/2) / maxGrams) // rounded percent
			if width > 0 && width < 2 {                                  // ensure visibility for very small values
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, row{Name: string(ce.Category), Amount: formatKg(ce.Emission.Grams), Width: width})
	}

	if err := s.templates.ExecuteTemplate(w, "month_summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "month_summary.html", "year", params.Year, "month", params.Month)
		_, _ = w.Write([]byte(`<section id="month-summary" class="month-summary"><div class="placeholder">Error rendering summary</div></section>`))
		return
	}
}

// handleHistory renders the activity listing partial for a month,
// optionally filtered to one category.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	params := ParseMonthParams(r.URL.Query())
	category := core.Category(sanitizeInput(r.URL.Query().Get("category")))
	limit := ParseLimitParam(r.URL.Query())

	filter := ledger.ActivityFilter{
		Year:     params.Year,
		Month:    params.Month,
		Category: category,
		Limit:    limit,
	}
	items, err := s.getActivities(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List activities error", "error", err, "year", params.Year, "month", params.Month, "category", category)
		_, _ = w.Write([]byte(`<section id="history" class="history"><div class="placeholder">Error loading history</div></section>`))
		return
	}
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="history" class="history"><div class="placeholder">No template</div></section>`))
		return
	}

	type row struct {
		Date     string
		Category string
		Mode     string
		Quantity string
		Unit     string
		Emission string
	}
	data := struct {
		Year  int
		Month int
		Rows  []row
	}{Year: params.Year, Month: params.Month}

	for _, a := range items {
		data.Rows = append(data.Rows, row{
			Date:     a.Date.ISO(),
			Category: string(a.Category),
			Mode:     a.Mode,
			Quantity: core.FormatQuantity(a.Quantity),
			Unit:     a.Category.Unit(),
			Emission: formatKg(a.Emission.Grams),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "history.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "history.html", "year", params.Year, "month", params.Month)
		_, _ = w.Write([]byte(`<section id="history" class="history"><div class="placeholder">Error rendering history</div></section>`))
		return
	}
}
