package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/vouchers"
)

// Exit codes returned by every command.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitSkipped = 10
)

// VoucherService is the slice of vouchers.Service the CLI drives.
type VoucherService interface {
	Preview(ctx context.Context, year, month int) (vouchers.Preview, error)
	Generate(ctx context.Context, req vouchers.GenerateRequest) (vouchers.GenerateResult, error)
	Check(ctx context.Context, year, month int) (vouchers.Check, error)
}

// VoucherCLI runs preview, generate and check from the command line.
type VoucherCLI struct {
	service VoucherService
	printer *message.Printer
}

// NewVoucherCLI constructs the helper.
func NewVoucherCLI(service VoucherService) (*VoucherCLI, error) {
	if service == nil {
		return nil, errors.New("jvctl: voucher service required")
	}
	return &VoucherCLI{service: service, printer: message.NewPrinter(language.English)}, nil
}

// Options are the flags shared by every command.
type Options struct {
	Year       int
	Month      int
	Types      []string
	Actor      string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// PreviewCommand prints what generate would post.
func (c *VoucherCLI) PreviewCommand(ctx context.Context, opts Options) int {
	opts.defaults()
	preview, err := c.service.Preview(ctx, opts.Year, opts.Month)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "preview: %v\n", err)
		return ExitFailure
	}
	if opts.JSONOutput {
		return encode(opts, "preview", preview)
	}
	for _, v := range preview.Vouchers {
		state := "not generated"
		if v.Exists {
			state = fmt.Sprintf("exists (entry %d)", v.EntryID)
		}
		_, _ = fmt.Fprintf(opts.Stdout, "%s  %s\n", v.ReferenceNo, state)
		if !v.HasData {
			_, _ = fmt.Fprintln(opts.Stdout, "  no qualifying payroll data")
			continue
		}
		tw := tabwriter.NewWriter(opts.Stdout, 2, 4, 2, ' ', 0)
		for _, l := range v.Draft.Lines {
			_, _ = fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", l.LineNumber, l.AccountCode, c.money(l.Debit), c.money(l.Credit), l.Particulars)
		}
		_, _ = fmt.Fprintf(tw, "  \t\t%s\t%s\t\n", c.money(v.TotalDebit), c.money(v.TotalCredit))
		_ = tw.Flush()
		for _, w := range v.Warnings {
			_, _ = fmt.Fprintf(opts.Stdout, "  warning: %s\n", w)
		}
	}
	return ExitOK
}

// GenerateCommand posts the requested vouchers. It exits with ExitSkipped
// when any requested voucher type was not created.
func (c *VoucherCLI) GenerateCommand(ctx context.Context, opts Options) int {
	opts.defaults()
	result, err := c.service.Generate(ctx, vouchers.GenerateRequest{
		Year:         opts.Year,
		Month:        opts.Month,
		VoucherTypes: opts.Types,
		CreatedBy:    opts.Actor,
	})
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "generate: %v\n", err)
		return ExitFailure
	}
	if opts.JSONOutput {
		if code := encode(opts, "generate", result); code != ExitOK {
			return code
		}
	} else {
		for _, o := range result.Outcomes() {
			if o.Created {
				_, _ = fmt.Fprintf(opts.Stdout, "%s  created entry %d, %d lines, %s\n", o.ReferenceNo, o.EntryID, o.LineCount, c.money(o.TotalDebit))
				continue
			}
			_, _ = fmt.Fprintf(opts.Stdout, "%s  skipped: %s\n", o.ReferenceNo, o.Reason)
		}
	}
	if result.AnySkipped() {
		return ExitSkipped
	}
	return ExitOK
}

// CheckCommand prints stored entry metadata per voucher type.
func (c *VoucherCLI) CheckCommand(ctx context.Context, opts Options) int {
	opts.defaults()
	check, err := c.service.Check(ctx, opts.Year, opts.Month)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "check: %v\n", err)
		return ExitFailure
	}
	if opts.JSONOutput {
		return encode(opts, "check", check)
	}
	for _, e := range check.Vouchers {
		if !e.Exists {
			_, _ = fmt.Fprintf(opts.Stdout, "%s  not generated\n", e.ReferenceNo)
			continue
		}
		date := ""
		if e.EntryDate != nil {
			date = e.EntryDate.Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(opts.Stdout, "%s  entry %d  %s  %s\n", e.ReferenceNo, e.EntryID, date, e.Status)
	}
	return ExitOK
}

func (c *VoucherCLI) money(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return c.printer.Sprintf("%.2f", d.InexactFloat64())
}

func encode(opts Options, cmd string, v any) int {
	if err := json.NewEncoder(opts.Stdout).Encode(v); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "%s: encode json: %v\n", cmd, err)
		return ExitFailure
	}
	return ExitOK
}

// SplitTypes parses a comma separated -types flag.
func SplitTypes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
