package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"google.golang.org/protobuf/types/known/timestamppb"

	ethfoliov1 "github.com/simaogato/ethfolio-backend/internal/adapter/grpc/ethfolio/v1"
)

func register(c *subcommands.Commander) {
	c.Register(&tradeCmd{side: "BUY"}, "transactions")
	c.Register(&tradeCmd{side: "SELL"}, "transactions")
	c.Register(&transactionsCmd{}, "transactions")

	c.Register(&overviewCmd{}, "reports")
	c.Register(&seriesCmd{}, "reports")

	c.Register(&priceCmd{}, "market")
	c.Register(&newsCmd{}, "market")
}

// parseTime accepts RFC3339 or a plain date (local midnight)
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// tradeCmd records a buy or a sell.
type tradeCmd struct {
	side    string
	amount  string
	price   string
	at      string
	current bool
}

func (c *tradeCmd) Name() string { return strings.ToLower(c.side) }
func (c *tradeCmd) Synopsis() string {
	return fmt.Sprintf("record a %s transaction", strings.ToLower(c.side))
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`ethfolio %s -a <amount> (-p <price> | -current) [-at <time>]

  Records a %s of ETH. The time defaults to now.
`, strings.ToLower(c.side), strings.ToLower(c.side))
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Quantity of ETH")
	f.StringVar(&c.price, "p", "", "Unit price in USD")
	f.StringVar(&c.at, "at", "", "Execution time, RFC3339 or YYYY-MM-DD")
	f.BoolVar(&c.current, "current", false, "Use the latest known market price")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	if c.price == "" && !c.current {
		fmt.Fprintln(os.Stderr, "Error: one of -p or -current is required")
		return subcommands.ExitUsageError
	}

	req := &ethfoliov1.RecordTransactionRequest{
		Side:            c.side,
		Amount:          c.amount,
		Price:           c.price,
		UseCurrentPrice: c.current,
	}
	if c.at != "" {
		at, err := parseTime(c.at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		req.Timestamp = timestamppb.New(at)
	}

	client, ctx, cleanup, err := dial(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	resp, err := client.RecordTransaction(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording transaction: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(transactionsMarkdown("Recorded", []*ethfoliov1.Transaction{resp.Transaction}))
	return subcommands.ExitSuccess
}

// transactionsCmd lists the transaction table.
type transactionsCmd struct {
	sort  string
	order string
	page  int
	size  int
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list recorded transactions" }
func (*transactionsCmd) Usage() string {
	return `ethfolio transactions [-sort date|type|amount|price] [-order asc|desc] [-page <n>] [-size <n>]

  Lists transactions one page at a time.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "date", "Sort field: date, type, amount or price")
	f.StringVar(&c.order, "order", "desc", "Sort order: asc or desc")
	f.IntVar(&c.page, "page", 1, "Page number, starting at 1")
	f.IntVar(&c.size, "size", 10, "Transactions per page")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, ctx, cleanup, err := dial(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	resp, err := client.ListTransactions(ctx, &ethfoliov1.ListTransactionsRequest{
		SortField: c.sort,
		SortOrder: c.order,
		Page:      int32(c.page),
		PageSize:  int32(c.size),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	title := fmt.Sprintf("Transactions (page %d of %d, %d total)", resp.Page, resp.TotalPages, resp.TotalCount)
	printMarkdown(transactionsMarkdown(title, resp.Transactions))
	return subcommands.ExitSuccess
}

// overviewCmd shows the position summary.
type overviewCmd struct {
	asOf string
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display holdings, cost basis and unrealized P&L" }
func (*overviewCmd) Usage() string {
	return `ethfolio overview [-as-of <time>]

  Displays the position valued at the latest price.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asOf, "as-of", "", "Compute the position as of this time, RFC3339 or YYYY-MM-DD (default now)")
}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := &ethfoliov1.GetOverviewRequest{}
	if c.asOf != "" {
		asOf, err := parseTime(c.asOf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		req.AsOf = timestamppb.New(asOf)
	}

	client, ctx, cleanup, err := dial(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	resp, err := client.GetOverview(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting overview: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(overviewMarkdown(resp.Overview))
	return subcommands.ExitSuccess
}

// seriesCmd shows the daily trend.
type seriesCmd struct {
	last int
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "display the daily holdings and P&L trend" }
func (*seriesCmd) Usage() string {
	return `ethfolio series [-last <n>]

  Displays one row per day from the first transaction until today.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.last, "last", 30, "Show only the last N days (0 for all)")
}

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, ctx, cleanup, err := dial(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	resp, err := client.GetDailySeries(ctx, &ethfoliov1.GetDailySeriesRequest{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting daily series: %v\n", err)
		return subcommands.ExitFailure
	}

	points := resp.Points
	if c.last > 0 && len(points) > c.last {
		points = points[len(points)-c.last:]
	}
	printMarkdown(seriesMarkdown(points))
	return subcommands.ExitSuccess
}

// priceCmd shows the latest quote.
type priceCmd struct {
	refresh bool
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "display the latest ETH price" }
func (*priceCmd) Usage() string {
	return `ethfolio price [-refresh]

  Displays the latest known ETH/USD quote.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Fetch a fresh quote before displaying it")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, ctx, cleanup, err := dial(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	var quote *ethfoliov1.Quote
	if c.refresh {
		resp, err := client.RefreshPrice(ctx, &ethfoliov1.RefreshPriceRequest{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing price: %v\n", err)
			return subcommands.ExitFailure
		}
		quote = resp.Quote
	} else {
		resp, err := client.GetPrice(ctx, &ethfoliov1.GetPriceRequest{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting price: %v\n", err)
			return subcommands.ExitFailure
		}
		quote = resp.Quote
	}

	printMarkdown(quoteMarkdown(quote))
	return subcommands.ExitSuccess
}

// newsCmd lists the latest headlines.
type newsCmd struct{}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "display the latest Ethereum headlines" }
func (*newsCmd) Usage() string {
	return `ethfolio news

  Displays the latest headlines mentioning Ethereum.
`
}

func (*newsCmd) SetFlags(f *flag.FlagSet) {}

func (*newsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, ctx, cleanup, err := dial(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	resp, err := client.ListNews(ctx, &ethfoliov1.ListNewsRequest{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting news: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(newsMarkdown(resp.Items))
	return subcommands.ExitSuccess
}
