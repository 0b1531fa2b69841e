package settings

import "testing"

func TestFromMapOverlaysDefaults(t *testing.T) {
	got := fromMap(map[string]string{
		"currency":            "KES",
		"low_stock_threshold": "12",
	})

	if got.Currency != "KES" {
		t.Fatalf("expected currency KES, got %q", got.Currency)
	}
	if got.LowStockThreshold != 12 {
		t.Fatalf("expected threshold 12, got %d", got.LowStockThreshold)
	}
	if got.Theme != "light" {
		t.Fatalf("expected default theme, got %q", got.Theme)
	}
	if !got.NotifyLowStock {
		t.Fatal("expected default notify toggle on")
	}
}

func TestFromMapIgnoresGarbage(t *testing.T) {
	got := fromMap(map[string]string{
		"currency":            "",
		"low_stock_threshold": "not-a-number",
		"notify_low_stock":    "maybe",
	})

	if got != Defaults() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestFromMapRejectsNonPositiveThreshold(t *testing.T) {
	got := fromMap(map[string]string{"low_stock_threshold": "0"})
	if got.LowStockThreshold != Defaults().LowStockThreshold {
		t.Fatalf("expected default threshold, got %d", got.LowStockThreshold)
	}
}

func TestRoundTrip(t *testing.T) {
	in := Settings{Currency: "EUR", LowStockThreshold: 3, Theme: "dark", NotifyLowStock: false}

	out := fromMap(in.toMap())
	if out != in {
		t.Fatalf("round trip changed settings: %+v vs %+v", out, in)
	}
}
