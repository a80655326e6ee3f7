package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"queon/internal/models"
)

func TestIncidentFeedBroadcast(t *testing.T) {
	ts := newTestServer(t)
	exam := createExam(t, ts)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/exams/incidents/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial incident feed: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("handshake status = %d", resp.StatusCode)
	}

	postJSON(t, ts.URL+"/api/exams/incident", models.Incident{
		ExamID:          exam.ID,
		Type:            models.IncidentKioskBypass,
		Details:         "Lockdown engaged in degraded mode",
		TimestampMillis: time.Now().UnixMilli(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.Incident
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read broadcast incident: %v", err)
	}
	if got.ExamID != exam.ID || got.Type != models.IncidentKioskBypass {
		t.Fatalf("unexpected broadcast %+v", got)
	}
}
