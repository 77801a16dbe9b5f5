package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestFormatKV(t *testing.T) {
	got := formatKV("checkout", []interface{}{"instrument", "SUBSCRIPTION", "user_id", 7})
	want := "checkout instrument=SUBSCRIPTION user_id=7"
	if got != want {
		t.Fatalf("formatKV = %q, want %q", got, want)
	}
}

func TestFormatKV_OddPairs(t *testing.T) {
	got := formatKV("msg", []interface{}{"dangling"})
	if got != "msg" {
		t.Fatalf("dangling key should be dropped, got %q", got)
	}
}

func TestInfoWritesToBuffer(t *testing.T) {
	var buf bytes.Buffer
	Init()
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Info("order created", "order_id", "abc")

	if !strings.Contains(buf.String(), "order created order_id=abc") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}
