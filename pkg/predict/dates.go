package predict

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

var nan = math.NaN()

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// excelEpoch is day zero of the 1900 date system, adjusted for its
// phantom leap day.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate reads ISO, US and Excel serial dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		days := math.Floor(serial)
		return excelEpoch.AddDate(0, 0, int(days)), true
	}
	return time.Time{}, false
}

// SortByDate orders predictions by date, keeping the existing order among
// equal dates. Unparseable dates sort last.
func SortByDate(preds []nfl.Prediction) {
	keys := make([]time.Time, len(preds))
	ok := make([]bool, len(preds))
	for i, p := range preds {
		keys[i], ok[i] = ParseDate(p.Date)
	}
	idx := make([]int, len(preds))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if ok[ia] != ok[ib] {
			return ok[ia]
		}
		return keys[ia].Before(keys[ib])
	})
	sorted := make([]nfl.Prediction, len(preds))
	for i, j := range idx {
		sorted[i] = preds[j]
	}
	copy(preds, sorted)
}
