//go:build integration || !unit

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "hotelops/internal/adapters/http_server"
	redisad "hotelops/internal/adapters/redis"
	"hotelops/internal/app"
	mysqlrepo "hotelops/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// do issues an authenticated JSON request and decodes the response into out
// (skipped when out is nil).
func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-Id", "7")
	req.Header.Set("X-Actor-Role", "STAFF")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return res.StatusCode
}

// ---------- the test ----------

func TestHTTP_EndToEnd_BookingFlow(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotelops",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotelops")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	// Real wiring: repo + redis cache (miniredis) + services + chi server
	repo := mysqlrepo.New(db)
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	ttl := 5 * time.Minute

	srv := server.New(1000)
	srv.MountHandlers(&server.Handlers{
		Reservations: app.NewReservationService(repo, repo, repo, cache, ttl),
		Rooms:        app.NewRoomService(repo, cache, ttl),
		Payments:     app.NewPaymentService(repo, repo, cache, ttl),
		Invoices:     app.NewInvoiceService(repo, repo),
		Guests:       app.NewGuestService(repo, repo),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// guest and room
	var guest struct {
		ID int64 `json:"id"`
	}
	if code := do(t, http.MethodPost, ts.URL+"/v1/guests", map[string]any{
		"firstName": "Ana", "lastName": "Silva", "email": "ana@example.com",
	}, &guest); code != http.StatusCreated {
		t.Fatalf("create guest: status %d", code)
	}
	var room struct {
		ID int64 `json:"id"`
	}
	if code := do(t, http.MethodPost, ts.URL+"/v1/rooms", map[string]any{
		"roomNumber": "101", "roomType": "DOUBLE", "floor": 1,
		"price": 120.0, "maxOccupancy": 2,
	}, &room); code != http.StatusCreated {
		t.Fatalf("create room: status %d", code)
	}

	// book
	var rv struct {
		ID          int64   `json:"id"`
		Status      string  `json:"status"`
		TotalAmount float64 `json:"totalAmount"`
	}
	if code := do(t, http.MethodPost, ts.URL+"/v1/reservations", map[string]any{
		"guestId": guest.ID, "roomId": room.ID,
		"checkInDate": "2026-09-01", "checkOutDate": "2026-09-05",
		"numberOfGuests": 2,
	}, &rv); code != http.StatusCreated {
		t.Fatalf("create reservation: status %d", code)
	}
	if rv.Status != "PENDING" || rv.TotalAmount != 480 {
		t.Fatalf("unexpected reservation: %+v", rv)
	}

	// confirm
	if code := do(t, http.MethodPut,
		fmt.Sprintf("%s/v1/reservations/%d/status?status=CONFIRMED", ts.URL, rv.ID), nil, nil); code != http.StatusOK {
		t.Fatalf("confirm: status %d", code)
	}

	// overlapping booking is rejected with 409
	if code := do(t, http.MethodPost, ts.URL+"/v1/reservations", map[string]any{
		"guestId": guest.ID, "roomId": room.ID,
		"checkInDate": "2026-09-03", "checkOutDate": "2026-09-07",
		"numberOfGuests": 1,
	}, nil); code != http.StatusConflict {
		t.Fatalf("expected 409 for overlap, got %d", code)
	}

	// availability endpoint agrees
	var avail struct {
		Available bool `json:"available"`
	}
	if code := do(t, http.MethodGet,
		fmt.Sprintf("%s/v1/rooms/%d/availability?checkinDate=2026-09-02&checkoutDate=2026-09-04", ts.URL, room.ID),
		nil, &avail); code != http.StatusOK {
		t.Fatalf("availability: status %d", code)
	}
	if avail.Available {
		t.Fatal("room reported available during a confirmed stay")
	}

	// cancel frees the room; rebooking the same range succeeds
	if code := do(t, http.MethodDelete,
		fmt.Sprintf("%s/v1/reservations/%d", ts.URL, rv.ID), nil, nil); code != http.StatusNoContent {
		t.Fatalf("cancel: status %d", code)
	}
	if code := do(t, http.MethodPost, ts.URL+"/v1/reservations", map[string]any{
		"guestId": guest.ID, "roomId": room.ID,
		"checkInDate": "2026-09-01", "checkOutDate": "2026-09-05",
		"numberOfGuests": 1,
	}, nil); code != http.StatusCreated {
		t.Fatalf("rebooking after cancel should succeed, got %d", code)
	}
}
