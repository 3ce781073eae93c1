package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/pipeline"
)

// Number encodes NaN and infinities as JSON null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

type monthPayload struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Value     Number `json:"value"`
}

type bucketPayload struct {
	Bucket     string            `json:"bucket"`
	Source     string            `json:"source"`
	Total      Number            `json:"total"`
	Monthly    []monthPayload    `json:"monthly,omitempty"`
	Categories map[string]Number `json:"categories,omitempty"`
}

type snapshotPayload struct {
	ID       string          `json:"id"`
	LoadedAt time.Time       `json:"loaded_at"`
	Source   string          `json:"source"`
	Buckets  []bucketPayload `json:"buckets"`
}

type summaryPayload struct {
	Bucket         string `json:"bucket"`
	Source         string `json:"source"`
	Total          Number `json:"total"`
	MonthlyAverage Number `json:"monthly_average,omitempty"`
	Months         int    `json:"months,omitempty"`
	TopCategory    string `json:"top_category,omitempty"`
	TopShare       Number `json:"top_share,omitempty"`
}

type predictionPayload struct {
	Bucket         string `json:"bucket"`
	Baseline       Number `json:"baseline"`
	Reference      Number `json:"reference"`
	PredictedValue Number `json:"predicted_value"`
	PercentChange  Number `json:"percent_change"`
}

type predictPayload struct {
	SnapshotID  string              `json:"snapshot_id"`
	Period      string              `json:"period"`
	Predictions []predictionPayload `json:"predictions"`
}

type savingsPayload struct {
	Bucket   string `json:"bucket"`
	Baseline Number `json:"baseline"`
	Percent  Number `json:"percent"`
	Amount   Number `json:"amount"`
}

func newSnapshotPayload(snap *model.Snapshot) snapshotPayload {
	p := snapshotPayload{
		ID:       snap.ID,
		LoadedAt: snap.LoadedAt,
		Source:   snap.SourceName,
	}
	for _, b := range model.AllBuckets {
		series := snap.Series(b)
		bp := bucketPayload{
			Bucket: b.String(),
			Source: series.Source.String(),
			Total:  Number(series.Total()),
		}
		for _, m := range series.Monthly {
			bp.Monthly = append(bp.Monthly, monthPayload{
				Year:      m.Year,
				Month:     m.Month,
				MonthName: m.MonthName,
				Value:     Number(m.Value),
			})
		}
		if len(series.Categories) > 0 {
			bp.Categories = make(map[string]Number, len(series.Categories))
			for k, v := range series.Categories {
				bp.Categories[k] = Number(v)
			}
		}
		p.Buckets = append(p.Buckets, bp)
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// currentSnapshot writes 503 and returns nil when nothing is loaded yet.
func (s *Service) currentSnapshot(w http.ResponseWriter) *model.Snapshot {
	snap, err := s.Snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return nil
	}
	return snap
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.currentSnapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotPayload(snap))
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap := s.currentSnapshot(w)
	if snap == nil {
		return
	}
	sums := pipeline.Summarize(snap)
	out := make([]summaryPayload, 0, len(sums))
	for _, sm := range sums {
		out = append(out, summaryPayload{
			Bucket:         sm.Bucket.String(),
			Source:         sm.Source.String(),
			Total:          Number(sm.Total),
			MonthlyAverage: Number(sm.MonthlyAverage),
			Months:         sm.Months,
			TopCategory:    sm.TopCategory,
			TopShare:       Number(sm.TopShare),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handlePredict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("period")
	if name == "" {
		name = forecast.NextYear.String()
	}
	period, err := forecast.ParsePeriod(name, q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap := s.currentSnapshot(w)
	if snap == nil {
		return
	}

	preds, err := s.forecaster.PredictAll(snap, period)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, forecast.ErrInvalidDateRange) || errors.Is(err, forecast.ErrUnknownPeriod) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	out := predictPayload{SnapshotID: snap.ID, Period: period.String()}
	for _, p := range preds {
		out.Predictions = append(out.Predictions, predictionPayload{
			Bucket:         p.Bucket.String(),
			Baseline:       Number(p.Baseline),
			Reference:      Number(p.Reference),
			PredictedValue: Number(p.PredictedValue),
			PercentChange:  Number(p.PercentChangeVsBaseline),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleSavings(w http.ResponseWriter, _ *http.Request) {
	snap := s.currentSnapshot(w)
	if snap == nil {
		return
	}
	est := forecast.EstimateAllSavings(s.cfg.Rand, snap)
	out := make([]savingsPayload, 0, len(est))
	for _, e := range est {
		out = append(out, savingsPayload{
			Bucket:   e.Bucket.String(),
			Baseline: Number(e.Baseline),
			Percent:  Number(e.Percent),
			Amount:   Number(e.Amount),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the current snapshot ID immediately.
	st := s.status()
	writeSSE(w, Event{
		Type:       "snapshot",
		Timestamp:  time.Now(),
		SnapshotID: st.SnapshotID,
		Error:      st.LastError,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
