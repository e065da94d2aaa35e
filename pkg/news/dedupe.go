package news

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	DateLayout          = "02 Jan 2006"
	DefaultLookbackDays = 2
)

// CollectionDate picks the earliest publish date to collect from. An explicit
// date in DateLayout wins; otherwise it is lookback days before now.
func CollectionDate(date string, lookback int, now time.Time) (time.Time, error) {
	if date != "" {
		t, err := time.Parse(DateLayout, date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid collection date %q, want format %q: %w", date, DateLayout, err)
		}
		return t, nil
	}
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}
	return truncateDay(now.AddDate(0, 0, -lookback)), nil
}

// Dedupe drops items sharing published date, source and text. The first
// occurrence is kept and order is preserved.
func Dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		key := ContentHash(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ContentHash identifies an item across collection runs.
func ContentHash(item Item) string {
	sum := sha256.Sum256([]byte(item.PublishedDate.Format("2006-01-02") + "\x00" + item.Source + "\x00" + item.Text))
	return hex.EncodeToString(sum[:])
}
