package models

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAmount renders a rupee amount with Indian digit grouping, e.g.
// 1234567.5 -> "₹12,34,567.50". Whole amounts drop the paise.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if n := len(intPart); n > 3 {
		head, tail := intPart[:n-3], intPart[n-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		b.WriteString(strings.Join(groups, ","))
		b.WriteString(",")
		b.WriteString(tail)
	} else {
		b.WriteString(intPart)
	}
	if frac != "00" {
		b.WriteString(".")
		b.WriteString(frac)
	}

	out := "₹" + b.String()
	if neg {
		return fmt.Sprintf("-%s", out)
	}
	return out
}
