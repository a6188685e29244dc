// Package format turns API values into the strings the console displays.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"netcafe/models"
)

const currencySuffix = " VNĐ"

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// ParseDuration understands the three shapes the API uses for durations:
// TimeSpan text ("1:02:03", "01:02:03.500", "2.01:02:03"), ISO-8601 ("PT1H2M3S")
// and a bare count of seconds ("3723").
func ParseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if m := isoDuration.FindStringSubmatch(s); m != nil && s != "PT" {
		days := atoi(m[1])
		hours := atoi(m[2])
		minutes := atoi(m[3])
		secs, _ := strconv.ParseFloat(orZero(m[4]), 64)
		d := time.Duration(days)*24*time.Hour +
			time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(secs*float64(time.Second))
		return d, true
	}
	if strings.Contains(s, ":") {
		return parseTimeSpan(s)
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil && secs >= 0 && !math.IsInf(secs, 0) {
		return time.Duration(secs * float64(time.Second)), true
	}
	return 0, false
}

func parseTimeSpan(s string) (time.Duration, bool) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var days int
	hourPart := parts[0]
	if i := strings.Index(hourPart, "."); i >= 0 {
		d, err := strconv.Atoi(hourPart[:i])
		if err != nil {
			return 0, false
		}
		days, hourPart = d, hourPart[i+1:]
	}
	hours, err := strconv.Atoi(hourPart)
	if err != nil || hours < 0 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	secs, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || secs < 0 || secs >= 60 {
		return 0, false
	}
	d := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(secs*float64(time.Second))
	if neg {
		d = -d
	}
	return d, true
}

// Duration normalizes a duration string to H:MM:SS. Empty input is "0:00:00";
// input that is not a recognizable duration is returned as is.
func Duration(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0:00:00"
	}
	d, ok := ParseDuration(s)
	if !ok {
		return s
	}
	return Clock(d)
}

// Clock renders d as H:MM:SS with whole seconds, hours unpadded.
func Clock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign, d = "-", -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, (total%3600)/60, total%60)
}

// UsageHours sums the durations of finished sessions in hours.
// Active sessions are still accruing and are left out.
func UsageHours(sessions []models.Session) float64 {
	var total time.Duration
	for _, s := range sessions {
		if s.Status == models.SessionActive {
			continue
		}
		if d, ok := ParseDuration(s.Duration); ok {
			total += d
		}
	}
	return total.Hours()
}

// Number groups digits the vi-VN way: "." for thousands, "," for decimals,
// at most three fraction digits.
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	rounded := math.Round(v*1000) / 1000
	if rounded == math.Trunc(rounded) {
		return humanize.FormatFloat("#.###,", rounded)
	}
	s := humanize.FormatFloat("#.###,###", rounded)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ",")
}

func Currency(v float64) string {
	return Number(v) + currencySuffix
}

// DateTime renders t the way vi-VN toLocaleString does: "15:04:05 2/1/2006".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04:05 2/1/2006")
}

func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2/1/2006")
}

// Hours renders a fractional hour count with one decimal, e.g. "1,5".
func Hours(h float64) string {
	return Number(math.Round(h*10) / 10)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
