package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	ethfoliov1 "github.com/simaogato/ethfolio-backend/internal/adapter/grpc/ethfolio/v1"
)

const undefined = "n/a"

// printMarkdown renders md for the terminal, falling back to the raw text
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render markdown: %v\n", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// usd formats a decimal string as dollars rounded to the cent
func usd(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func optionalUSD(v *wrapperspb.StringValue) string {
	if v == nil {
		return undefined
	}
	return usd(v.GetValue())
}

func optionalPercent(v *wrapperspb.StringValue) string {
	if v == nil {
		return undefined
	}
	return percent(v.GetValue())
}

func percent(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func formatTime(ts *timestamppb.Timestamp) string {
	if ts == nil {
		return ""
	}
	return ts.AsTime().In(time.Local).Format("2006-01-02 15:04")
}

func overviewMarkdown(o *ethfoliov1.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ETH position as of %s\n\n", formatTime(o.AsOf))
	b.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Holdings | %s ETH |\n", o.Holdings)
	fmt.Fprintf(&b, "| Cost basis | %s |\n", usd(o.CostBasis))
	fmt.Fprintf(&b, "| Average cost | %s |\n", optionalUSD(o.AverageCost))
	fmt.Fprintf(&b, "| Price | %s |\n", optionalUSD(o.Price))
	fmt.Fprintf(&b, "| 24h change | %s |\n", optionalPercent(o.ChangePercent24H))
	fmt.Fprintf(&b, "| Market value | %s |\n", optionalUSD(o.MarketValue))
	fmt.Fprintf(&b, "| Unrealized P&L | %s |\n", optionalUSD(o.UnrealizedPnl))
	fmt.Fprintf(&b, "| P&L %% | %s |\n", optionalPercent(o.PnlPercent))
	if o.Price == nil {
		b.WriteString("\n*Price not available yet: market figures are undefined.*\n")
	}
	return b.String()
}

func transactionsMarkdown(title string, txs []*ethfoliov1.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(txs) == 0 {
		b.WriteString("No transactions.\n")
		return b.String()
	}
	b.WriteString("| Time | Side | Amount | Price | Total |\n|---|---|---:|---:|---:|\n")
	for _, tx := range txs {
		total := ""
		amount, errA := decimal.NewFromString(tx.Amount)
		price, errP := decimal.NewFromString(tx.Price)
		if errA == nil && errP == nil {
			total = usd(amount.Mul(price).String())
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			formatTime(tx.Timestamp), tx.Side, tx.Amount, usd(tx.Price), total)
	}
	return b.String()
}

func seriesMarkdown(points []*ethfoliov1.DailyPoint) string {
	var b strings.Builder
	b.WriteString("# Daily trend\n\n")
	if len(points) == 0 {
		b.WriteString("No transactions yet.\n")
		return b.String()
	}
	b.WriteString("| Date | Holdings | Cost basis | Market value | Unrealized P&L |\n|---|---:|---:|---:|---:|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			p.Date, p.Holdings, usd(p.CostBasis), optionalUSD(p.MarketValue), optionalUSD(p.UnrealizedPnl))
	}
	return b.String()
}

func quoteMarkdown(q *ethfoliov1.Quote) string {
	return fmt.Sprintf("# ETH %s\n\n24h change %s, fetched %s\n",
		usd(q.Usd), percent(q.ChangePercent24H), formatTime(q.FetchedAt))
}

func newsMarkdown(items []*ethfoliov1.NewsItem) string {
	var b strings.Builder
	b.WriteString("# Ethereum news\n\n")
	if len(items) == 0 {
		b.WriteString("No headlines right now.\n")
		return b.String()
	}
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s](%s)", item.Title, item.Url)
		if item.PublishedAt != nil {
			fmt.Fprintf(&b, " *%s*", formatTime(item.PublishedAt))
		}
		b.WriteString("\n")
	}
	return b.String()
}
