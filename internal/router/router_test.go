package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taara-rescue/internal/adapters/auth/jwtauth"
	"taara-rescue/internal/config"
	"taara-rescue/internal/router"

	"github.com/rs/zerolog"
)

// pngHeader alcanza para que el sniffing detecte image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		UploadDir:  t.TempDir(),
		SeedAdmins: true,
	}
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Cfg:    cfg,
		Logger: zerolog.Nop(),
		Issuer: jwtauth.New("test-secret", time.Hour),
		// Verifier nil => modo dev con headers X-Debug-*
	}))
	t.Cleanup(ts.Close)
	return ts
}

func doReq(t *testing.T, baseURL, method, path, debugUser string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUser != "" {
		req.Header.Set("X-Debug-User-ID", debugUser)
		req.Header.Set("X-Debug-Role", "admin")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func submitRescue(t *testing.T, baseURL string, fields map[string]string, photo []byte, idemKey string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if photo != nil {
		fw, err := mw.CreateFormFile("photo", "scene.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write(photo)
	}
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/rescue-requests", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func validRescueFields() map[string]string {
	return map[string]string{
		"fullName":      "Maria Santos",
		"contactNumber": "09171234567",
		"email":         "maria@example.com",
		"concern":       "Injured dog on the roadside",
		"locationNote":  "Near the public market",
		"urgency":       "urgent",
	}
}

func TestHTTP_EndToEnd_RescueIntake(t *testing.T) {
	ts := newTestServer(t)

	// 1) Formulario público válido con foto
	st, body := submitRescue(t, ts.URL, validRescueFields(), pngHeader, "")
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}
	var created struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !created.Success || !strings.HasPrefix(created.RequestID, "TAARA-") {
		t.Fatalf("unexpected response: %+v", created)
	}

	// 2) El denunciante sigue su caso por código, sin login
	{
		st, body := doReq(t, ts.URL, "GET", "/api/rescue-requests/track/"+created.RequestID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 track, got %d body=%s", st, string(body))
		}
		var tracked map[string]any
		_ = json.Unmarshal(body, &tracked)
		if tracked["status"] != "pending" {
			t.Fatalf("expected pending status, got %v", tracked["status"])
		}
		// La vista pública no expone datos de contacto
		if _, leaked := tracked["contactNumber"]; leaked {
			t.Fatalf("track view leaked contact data: %s", string(body))
		}
	}

	// 3) Campos faltantes => 400 con mensaje por campo y nada persistido
	{
		st, body := submitRescue(t, ts.URL, map[string]string{"fullName": "solo nombre"}, nil, "")
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", st, string(body))
		}
		var resp struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Message != "Validation failed" {
			t.Fatalf("expected Validation failed, got %q", resp.Message)
		}
		for _, field := range []string{"contactNumber", "email", "concern", "locationNote"} {
			if resp.Errors[field] == "" {
				t.Fatalf("expected error for %s, got %v", field, resp.Errors)
			}
		}
	}

	// 4) Lista admin: sin identidad 401, con identidad 200 y un solo caso
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/rescue-requests", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}

		st, body := doReq(t, ts.URL, "GET", "/api/rescue-requests", "admin1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 admin list, got %d body=%s", st, string(body))
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 {
			t.Fatalf("expected 1 rescue request, got %d", len(list))
		}
	}

	// 5) Admin cambia estado y agrega nota
	{
		st, body := doReq(t, ts.URL, "GET", "/api/rescue-requests", "admin1", nil)
		if st != http.StatusOK {
			t.Fatalf("list: %d", st)
		}
		var list []struct {
			ID string `json:"_id"`
		}
		_ = json.Unmarshal(body, &list)
		id := list[0].ID

		st, body = doReq(t, ts.URL, "PATCH", "/api/rescue-requests/"+id+"/status", "admin1", map[string]any{
			"status":     "in-progress",
			"assignedTo": "admin2",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 status update, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "POST", "/api/rescue-requests/"+id+"/notes", "admin1", map[string]any{
			"text": "Rescue team dispatched",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 add note, got %d body=%s", st, string(body))
		}
		var noteResp struct {
			Request struct {
				Notes []struct {
					Text      string `json:"text"`
					CreatedBy string `json:"createdBy"`
				} `json:"notes"`
			} `json:"request"`
		}
		_ = json.Unmarshal(body, &noteResp)
		if len(noteResp.Request.Notes) != 1 || noteResp.Request.Notes[0].CreatedBy != "admin1" {
			t.Fatalf("unexpected notes: %s", string(body))
		}
	}
}

func TestHTTP_RescueIntake_IdempotencyKey(t *testing.T) {
	ts := newTestServer(t)

	st, body := submitRescue(t, ts.URL, validRescueFields(), nil, "retry-key-1")
	if st != http.StatusCreated {
		t.Fatalf("expected 201 first submit, got %d body=%s", st, string(body))
	}
	var first struct {
		RequestID string `json:"requestId"`
	}
	_ = json.Unmarshal(body, &first)

	// Mismo Idempotency-Key: devuelve el caso ya creado con 200
	st, body = submitRescue(t, ts.URL, validRescueFields(), nil, "retry-key-1")
	if st != http.StatusOK {
		t.Fatalf("expected 200 replay, got %d body=%s", st, string(body))
	}
	var second struct {
		RequestID string `json:"requestId"`
	}
	_ = json.Unmarshal(body, &second)
	if first.RequestID != second.RequestID {
		t.Fatalf("expected same tracking code, got %s vs %s", first.RequestID, second.RequestID)
	}

	st, body = doReq(t, ts.URL, "GET", "/api/rescue-requests", "admin1", nil)
	if st != http.StatusOK {
		t.Fatalf("list: %d", st)
	}
	var list []map[string]any
	_ = json.Unmarshal(body, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 rescue request after replay, got %d", len(list))
	}
}

func TestHTTP_Events_CalendarFlow(t *testing.T) {
	ts := newTestServer(t)

	// Crear sin identidad => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/events", "", map[string]any{
			"title": "Adoption day",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", st)
		}
	}

	// Crear dos eventos fuera de orden; status omitido => pending
	{
		st, body := doReq(t, ts.URL, "POST", "/api/events", "admin1", map[string]any{
			"title":       "Vaccination drive",
			"date":        "2026-10-20",
			"time":        "09:00",
			"location":    "City plaza",
			"description": "Free anti-rabies shots",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", st, string(body))
		}
		var resp struct {
			Event struct {
				Status string `json:"status"`
			} `json:"event"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Event.Status != "pending" {
			t.Fatalf("expected default pending, got %q", resp.Event.Status)
		}

		st, body = doReq(t, ts.URL, "POST", "/api/events", "admin1", map[string]any{
			"title":       "Adoption day",
			"date":        "2026-09-15",
			"time":        "10:00",
			"location":    "Shelter grounds",
			"description": "Meet the animals",
			"status":      "confirmed",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", st, string(body))
		}
	}

	// El calendario público lista por fecha ascendente
	{
		st, body := doReq(t, ts.URL, "GET", "/api/events", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var list []struct {
			Title string    `json:"title"`
			Date  time.Time `json:"date"`
		}
		_ = json.Unmarshal(body, &list)
		if len(list) != 2 {
			t.Fatalf("expected 2 events, got %d", len(list))
		}
		if !list[0].Date.Before(list[1].Date) {
			t.Fatalf("expected events sorted by date asc: %+v", list)
		}
	}

	// Campos faltantes => 400 con errores por campo
	{
		st, body := doReq(t, ts.URL, "POST", "/api/events", "admin1", map[string]any{
			"title": "Incomplete",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", st, string(body))
		}
		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Errors["date"] == "" || resp.Errors["location"] == "" {
			t.Fatalf("expected per-field errors, got %v", resp.Errors)
		}
	}

	// Borrar inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/events/nope", "admin1", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", st)
		}
	}
}

func TestHTTP_Users_LoginAndManagement(t *testing.T) {
	ts := newTestServer(t)

	// Login con cuenta seedeada
	{
		st, body := doReq(t, ts.URL, "POST", "/api/login", "", map[string]any{
			"username": "admin1",
			"password": "Admin1Pass!",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
		}
		var resp struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.Success || resp.Token == "" {
			t.Fatalf("expected token, got %s", string(body))
		}
	}

	// Credenciales malas: mismo 400 para usuario inexistente y password mala
	{
		st1, body1 := doReq(t, ts.URL, "POST", "/api/login", "", map[string]any{
			"username": "ghost", "password": "whatever",
		})
		st2, body2 := doReq(t, ts.URL, "POST", "/api/login", "", map[string]any{
			"username": "admin1", "password": "wrong",
		})
		if st1 != http.StatusBadRequest || st2 != http.StatusBadRequest {
			t.Fatalf("expected 400/400, got %d/%d", st1, st2)
		}
		if string(body1) != string(body2) {
			t.Fatalf("expected indistinguishable failures: %s vs %s", body1, body2)
		}
	}

	// Lista de usuarios: 401 sin identidad; con admin, sin hashes
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/users", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", st)
		}

		st, body := doReq(t, ts.URL, "GET", "/api/users", "admin1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", st, string(body))
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 3 {
			t.Fatalf("expected 3 seeded admins, got %d", len(list))
		}
		if strings.Contains(strings.ToLower(string(body)), "password") {
			t.Fatalf("users list leaked password material: %s", string(body))
		}
	}

	// Alta duplicada => 400 con mensaje claro
	{
		st, body := doReq(t, ts.URL, "POST", "/api/users", "admin1", map[string]any{
			"username": "admin1", "password": "whatever1",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), "Username already exists") {
			t.Fatalf("unexpected body: %s", string(body))
		}
	}
}

func TestHTTP_Animals_ReportAndAdoptAlias(t *testing.T) {
	ts := newTestServer(t)

	// Reporte público multipart sin imagen
	{
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("name", "Brownie")
		_ = mw.WriteField("breed", "Aspin")
		_ = mw.WriteField("address", "Purok 5")
		_ = mw.WriteField("reporter", "Jun")
		_ = mw.Close()

		req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/animals", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", resp.StatusCode, string(raw))
		}
	}

	// La lista pública y el alias /adopt devuelven lo mismo
	{
		st, body := doReq(t, ts.URL, "GET", "/api/animals", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 animals, got %d", st)
		}
		st, body2 := doReq(t, ts.URL, "GET", "/api/adopt", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 adopt, got %d", st)
		}
		if string(body) != string(body2) {
			t.Fatalf("expected /adopt to mirror /animals")
		}
	}

	// Update admin-only
	{
		st, body := doReq(t, ts.URL, "GET", "/api/animals", "", nil)
		if st != http.StatusOK {
			t.Fatalf("list: %d", st)
		}
		var list []struct {
			ID string `json:"_id"`
		}
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 {
			t.Fatalf("expected 1 animal, got %d", len(list))
		}

		st, _ = doReq(t, ts.URL, "PUT", "/api/animals/"+list[0].ID, "", map[string]any{
			"status": "sheltered",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}

		st, body = doReq(t, ts.URL, "PUT", "/api/animals/"+list[0].ID, "admin1", map[string]any{
			"status": "sheltered",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_Applications_SubmitAndReview(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/api/applications", "", map[string]any{
		"name":    "Ana Reyes",
		"contact": "09181234567",
		"address": "Barangay Magugpo",
		"petType": "dog",
		"reason":  "Looking for a companion",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}

	// Campos faltantes => 400
	st, body = doReq(t, ts.URL, "POST", "/api/applications", "", map[string]any{
		"name": "Ana Reyes",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", st, string(body))
	}

	// Revisión: 401 sin identidad, 200 con admin
	st, _ = doReq(t, ts.URL, "GET", "/api/applications", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", st)
	}
	st, body = doReq(t, ts.URL, "GET", "/api/applications", "admin1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	var list []map[string]any
	_ = json.Unmarshal(body, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 application, got %d", len(list))
	}
}

func TestHTTP_RescuePhoto_Rejections(t *testing.T) {
	ts := newTestServer(t)

	// No-imagen => 400
	{
		st, body := submitRescue(t, ts.URL, validRescueFields(), []byte("plain text, not an image"), "")
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for non-image, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), "Only image files are allowed") {
			t.Fatalf("unexpected body: %s", string(body))
		}
	}

	// Nada quedó persistido tras el rechazo
	{
		st, body := doReq(t, ts.URL, "GET", "/api/rescue-requests", "admin1", nil)
		if st != http.StatusOK {
			t.Fatalf("list: %d", st)
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 0 {
			t.Fatalf("expected no rescue requests, got %d", len(list))
		}
	}
}
