package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwemail "github.com/jordan-wright/email"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"kalimati-price-tracker/internal/storage"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testNote(recipient string) Notification {
	return Notification{
		Recipient: recipient,
		Date:      time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Records: []storage.PriceRecord{
			{
				Commodity:             "Tomato Big(Nepali)",
				Unit:                  "Kg",
				Average:               decimal.RequireFromString("36.00"),
				FluctuationValue:      decimal.RequireFromString("6.00"),
				FluctuationPercentage: decimal.RequireFromString("20.00"),
				Significant:           true,
			},
			{
				Commodity:             "Onion Dry(Indian)",
				Unit:                  "Kg",
				Average:               decimal.RequireFromString("68.00"),
				FluctuationValue:      decimal.RequireFromString("-17.00"),
				FluctuationPercentage: decimal.RequireFromString("-20.00"),
				Significant:           true,
			},
		},
	}
}

func TestEmailNotifier(t *testing.T) {
	var sent *jwemail.Email
	n := NewEmailNotifier(EmailOptions{
		Server:  "smtp.example.com",
		Port:    587,
		Address: "alerts@example.com",
	}, testLogger())
	n.send = func(mail *jwemail.Email) error {
		sent = mail
		return nil
	}

	if err := n.Notify(context.Background(), testNote("sub@example.com")); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if sent == nil {
		t.Fatal("no mail captured")
	}
	if len(sent.To) != 1 || sent.To[0] != "sub@example.com" {
		t.Fatalf("unexpected recipients: %v", sent.To)
	}
	if !strings.Contains(sent.Subject, "2025-01-02") {
		t.Fatalf("subject should carry the date: %q", sent.Subject)
	}
	body := string(sent.HTML)
	if !strings.Contains(body, "Tomato Big(Nepali)") || !strings.Contains(body, "+20.00%") {
		t.Fatalf("body missing rising record: %q", body)
	}
	if !strings.Contains(body, "-20.00%") {
		t.Fatalf("falling record must keep its sign: %q", body)
	}
}

func TestEmailNotifierNoRecipient(t *testing.T) {
	n := NewEmailNotifier(EmailOptions{Server: "smtp.example.com", Address: "alerts@example.com"}, testLogger())
	n.send = func(mail *jwemail.Email) error { return nil }

	if err := n.Notify(context.Background(), testNote("")); err == nil {
		t.Fatal("missing recipient should error")
	}
}

func TestEmailNotifierSendFailure(t *testing.T) {
	n := NewEmailNotifier(EmailOptions{Server: "smtp.example.com", Address: "alerts@example.com"}, testLogger())
	n.send = func(mail *jwemail.Email) error { return errors.New("connection refused") }

	if err := n.Notify(context.Background(), testNote("sub@example.com")); err == nil {
		t.Fatal("send failure must propagate")
	}
}

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sendMessage") {
			t.Fatalf("path should contain sendMessage, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())

	if err := n.Notify(context.Background(), testNote("")); err != nil {
		t.Fatalf("Telegram Notify should succeed: %v", err)
	}

	if received["chat_id"] != "chat" {
		t.Fatalf("wrong chat_id: %#v", received)
	}
	if !strings.Contains(received["text"], "Onion Dry(Indian)") {
		t.Fatalf("text missing records: %q", received["text"])
	}
}

func TestTelegramNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())

	if err := n.Notify(context.Background(), testNote("")); err == nil {
		t.Fatal("ok=false should error")
	}
}
