package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"poolLens/internal/model"
)

// Render writes the pool report as human-readable lines. The output is
// informational only and not consumed programmatically.
func Render(w io.Writer, rep model.PoolReport) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Current time (toBlock): %s\n", formatTime(rep.ToBlock.Time())))
	sb.WriteString(fmt.Sprintf("Lower boundary (fromBlock): #%d at %s\n", rep.FromBlock.Number, formatTime(rep.FromBlock.Time())))
	sb.WriteString(fmt.Sprintf("Upper boundary (toBlock): #%d at %s\n", rep.ToBlock.Number, formatTime(rep.ToBlock.Time())))
	sb.WriteString(fmt.Sprintf("Pool: %s/%s (%s)\n", rep.Symbol0, rep.Symbol1, rep.PoolAddress))
	sb.WriteString(fmt.Sprintf("Price (%s per %s): %s\n", rep.Symbol0, rep.Symbol1, formatFloat(rep.Price0Per1)))
	sb.WriteString(fmt.Sprintf("Price (%s per %s): %s\n", rep.Symbol1, rep.Symbol0, formatFloat(rep.Price1Per0)))
	sb.WriteString(fmt.Sprintf("Tick: %d\n", rep.Tick))
	sb.WriteString(fmt.Sprintf("Liquidity: %s\n", rep.Liquidity))
	sb.WriteString(fmt.Sprintf("Pool balances: %s %s, %s %s\n",
		formatFloat(rep.Balance0), rep.Symbol0, formatFloat(rep.Balance1), rep.Symbol1))
	if !rep.PairSupported {
		sb.WriteString("Note: token pair outside the reference-asset set; TVL and volume reported as zero\n")
	}
	sb.WriteString(fmt.Sprintf("Swaps in window: %d\n", rep.SwapCount))
	sb.WriteString(fmt.Sprintf("TVL: %s\n", formatUSD(rep.TVLUSD)))
	sb.WriteString(fmt.Sprintf("24H volume: %s\n", formatUSD(rep.VolumeUSD)))
	sb.WriteString(fmt.Sprintf("24H fees: %s\n", formatUSD(rep.DailyFeesUSD)))
	sb.WriteString(fmt.Sprintf("APR: %.2f%%\n", rep.APRPercent))

	_, err := io.WriteString(w, sb.String())
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + "Z"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatUSD renders an amount as $1,234,567.89.
func formatUSD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	whole := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(whole, '.')
	if dot < 0 {
		// NaN and Inf render without a decimal point.
		return sign + "$" + whole
	}
	intPart, fracPart := whole[:dot], whole[dot:]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	return sign + "$" + grouped.String() + fracPart
}
