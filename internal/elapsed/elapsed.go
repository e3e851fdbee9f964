// Package elapsed formats whole-second durations for build log banners.
package elapsed

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Since formats now-baseline as H:MM:SS. Hours are padded to two columns
// and are not clamped, so 25 hours prints as "25:00:00".
// Negative durations use floor division, e.g. -1s prints as "-1:59:59".
func Since(baseline, now int64) string {
	h, m, s := Split(now - baseline)
	return fmt.Sprintf("%2d:%02d:%02d", h, m, s)
}

// Split breaks seconds into hours, minutes and seconds using floor division.
// minutes and seconds are always in [0, 59].
func Split(seconds int64) (hours, minutes, secs int64) {
	rest, secs := divmod(seconds, 60)
	hours, minutes = divmod(rest, 60)
	return hours, minutes, secs
}

// divmod rounds the quotient toward negative infinity, so the remainder
// has the sign of d.
func divmod(n, d int64) (q, r int64) {
	q, r = n/d, n%d
	if r != 0 && (r < 0) != (d < 0) {
		q--
		r += d
	}
	return q, r
}

// Unix returns t as whole seconds since the epoch, truncated toward zero.
// time.Time.Unix floors, which differs for pre-epoch times with a
// fractional part.
func Unix(t time.Time) int64 {
	sec := t.Unix()
	if sec < 0 && t.Nanosecond() > 0 {
		sec++
	}
	return sec
}

// Center pads s on both sides with fill up to width runes. When the padding
// is odd the extra rune goes left only if width is odd as well, otherwise
// right. Strings already at least width runes long are returned as is.
func Center(s string, width int, fill rune) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	marg := width - n
	left := marg/2 + (marg & width & 1)
	f := string(fill)
	return strings.Repeat(f, left) + s + strings.Repeat(f, marg-left)
}

// Banner centers desc, surrounded by one space on each side, in width
// runes of fill.
func Banner(desc string, width int, fill rune) string {
	return Center(" "+desc+" ", width, fill)
}
