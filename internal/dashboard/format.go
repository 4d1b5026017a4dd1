package dashboard

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// moneyGrouped adds thousands separators, for totals.
func moneyGrouped(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func score(v float64) string {
	return fmt.Sprintf("%.1f/5.0", v)
}
