package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/estalvi/internal/rng"
	"github.com/theirongolddev/estalvi/internal/source"
)

const testCSV = `Tipus,Categoria,Data,Valor
Energia,Consum,2024-01-15,300
Energia,Consum,2024-02-15,320
Aigua,Consum,2024-01-10,6000
Consumible,Marcador,2024-01-10,10
Consumible,WC,2024-03-01,abc
`

func newTestService(t *testing.T, csv string) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}
	s := New(Config{
		Source:   source.FileSource{Path: path},
		Rand:     rng.Seeded(1),
		Interval: 10 * time.Second,
	})
	return s, path
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Source:       source.FileSource{Path: "."},
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestNumberMarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Number{"nan": Number(math.NaN()), "v": 1.5})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != `{"nan":null,"v":1.5}` {
		t.Errorf("json = %s", got)
	}
}

func TestHandlers_NoSnapshot(t *testing.T) {
	s, _ := newTestService(t, testCSV)
	h := s.Handler()

	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d, want 200", rec.Code)
	}
	if rec := get(t, h, "/v1/summary"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/v1/summary = %d, want 503 before first load", rec.Code)
	}
}

func TestHandlers_AfterReload(t *testing.T) {
	s, _ := newTestService(t, testCSV)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	h := s.Handler()

	rec := get(t, h, "/v1/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("/v1/snapshot = %d", rec.Code)
	}
	var snap snapshotPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decoding snapshot: %v\n%s", err, rec.Body.String())
	}
	if len(snap.Buckets) != 4 {
		t.Fatalf("buckets = %d, want 4", len(snap.Buckets))
	}
	if snap.Buckets[0].Source != "real" || len(snap.Buckets[0].Monthly) != 2 {
		t.Errorf("electric = %+v", snap.Buckets[0])
	}
	// Cleaning has one non-numeric value, so its total is NaN and encodes as null.
	if !strings.Contains(rec.Body.String(), `"bucket":"cleaning","source":"real","total":null`) {
		t.Errorf("cleaning total should be null:\n%s", rec.Body.String())
	}

	rec = get(t, h, "/v1/status")
	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Rows != 5 || st.NonNumericValues != 1 || st.LoadCount != 1 {
		t.Errorf("status = %+v", st)
	}

	if rec := get(t, h, "/v1/summary"); rec.Code != http.StatusOK {
		t.Errorf("/v1/summary = %d", rec.Code)
	}
	if rec := get(t, h, "/v1/savings"); rec.Code != http.StatusOK {
		t.Errorf("/v1/savings = %d", rec.Code)
	}
}

func TestHandlers_Predict(t *testing.T) {
	s, _ := newTestService(t, testCSV)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	h := s.Handler()

	tests := []struct {
		query string
		code  int
	}{
		{"", http.StatusOK},
		{"?period=nextCourse", http.StatusOK},
		{"?period=custom&start=2025-02-01&end=2025-02-28", http.StatusOK},
		{"?period=custom&start=not-a-date&end=2025-02-28", http.StatusBadRequest},
		{"?period=custom&start=2025-03-01&end=2025-02-01", http.StatusBadRequest},
		{"?period=decade", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := get(t, h, "/v1/predict"+tt.query)
		if rec.Code != tt.code {
			t.Errorf("/v1/predict%s = %d, want %d: %s", tt.query, rec.Code, tt.code, rec.Body.String())
		}
	}

	rec := get(t, h, "/v1/predict?period=nextYear")
	var out predictPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Predictions) != 4 || out.Period != "nextYear" {
		t.Errorf("predict = %+v", out)
	}
}

func TestReload_FailureKeepsSnapshot(t *testing.T) {
	s, path := newTestService(t, testCSV)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Snapshot()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error after removing the source")
	}

	after, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot lost after failed reload: %v", err)
	}
	if after.ID != before.ID {
		t.Errorf("snapshot ID changed from %s to %s", before.ID, after.ID)
	}
	if st := s.status(); st.LastError == "" || st.LoadCount != 2 {
		t.Errorf("status = %+v, want last error and two loads", st)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reload", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("POST /v1/reload = %d, want 502", rec.Code)
	}
}

func TestReload_ReplacesSnapshot(t *testing.T) {
	s, _ := newTestService(t, testCSV)
	_ = s.Reload(context.Background())
	first, _ := s.Snapshot()
	_ = s.Reload(context.Background())
	second, _ := s.Snapshot()
	if first.ID == second.ID {
		t.Error("each reload should produce a new snapshot")
	}
	if first == second {
		t.Error("snapshots should be distinct values")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestService(t, testCSV)
	_ = s.Reload(context.Background())

	rec := get(t, s.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`estalvi_reloads_total{result="ok"} 1`,
		`estalvi_bucket_synthetic{bucket="electric"} 0`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestStream_SendsInitialEvent(t *testing.T) {
	s, _ := newTestService(t, testCSV)
	_ = s.Reload(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	buf := make([]byte, 256)
	n, err := resp.Body.Read(buf)
	if err != nil && n == 0 {
		t.Fatalf("reading stream: %v", err)
	}
	if !strings.HasPrefix(string(buf[:n]), "event: snapshot") {
		t.Errorf("first event = %q", buf[:n])
	}
}

func TestReload_CallsOnReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	var got []Status
	s := New(Config{
		Source:   source.FileSource{Path: path},
		Rand:     rng.Seeded(1),
		Interval: 10 * time.Second,
		OnReload: func(st Status) { got = append(got, st) },
	})

	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("OnReload called %d times, want 1", len(got))
	}
	if got[0].SnapshotID == "" || got[0].Rows == 0 || got[0].LoadCount != 1 {
		t.Errorf("status = %+v", got[0])
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	_ = s.Reload(context.Background())
	if len(got) != 2 {
		t.Fatalf("OnReload called %d times after failure, want 2", len(got))
	}
	if got[1].LastError == "" || got[1].SnapshotID != got[0].SnapshotID {
		t.Errorf("failed reload status = %+v", got[1])
	}
}

func TestServe_ShutdownEndsOpenStreams(t *testing.T) {
	s, _ := newTestService(t, testCSV)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/v1/stream")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	if !strings.HasPrefix(line, "event: ") {
		t.Errorf("first line = %q", line)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel with a stream open")
	}
}
