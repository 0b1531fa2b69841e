package settings

import "strconv"

// Settings is the application's unstructured preference blob: presentation
// and threshold knobs the data layer treats as opaque caller-supplied
// inputs. It lives outside the relational store.
type Settings struct {
	Currency          string `json:"currency"`
	LowStockThreshold int    `json:"lowStockThreshold"`
	Theme             string `json:"theme"`
	NotifyLowStock    bool   `json:"notifyLowStock"`
}

// Defaults are the documented fallback values used on first run and
// whenever the settings store is unreachable.
func Defaults() Settings {
	return Settings{
		Currency:          "USD",
		LowStockThreshold: 5,
		Theme:             "light",
		NotifyLowStock:    true,
	}
}

func (s Settings) toMap() map[string]string {
	return map[string]string{
		"currency":            s.Currency,
		"low_stock_threshold": strconv.Itoa(s.LowStockThreshold),
		"theme":               s.Theme,
		"notify_low_stock":    strconv.FormatBool(s.NotifyLowStock),
	}
}

// fromMap overlays stored fields on the defaults, so partially written
// blobs still yield a complete struct.
func fromMap(fields map[string]string) Settings {
	s := Defaults()
	if v, ok := fields["currency"]; ok && v != "" {
		s.Currency = v
	}
	if v, ok := fields["low_stock_threshold"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.LowStockThreshold = n
		}
	}
	if v, ok := fields["theme"]; ok && v != "" {
		s.Theme = v
	}
	if v, ok := fields["notify_low_stock"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.NotifyLowStock = b
		}
	}
	return s
}
