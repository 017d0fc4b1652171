package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
)

const usage = `usage: jvctl <preview|generate|check> -year YYYY -month MM [-types JVDR,JVSL] [-actor name] [-json]`

// Run dispatches args (without the program name) to a command.
func (c *VoucherCLI) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stderr, usage)
		return ExitFailure
	}
	cmd := args[0]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	year := fs.Int("year", 0, "payroll year")
	month := fs.Int("month", 0, "payroll month (1-12)")
	types := fs.String("types", "", "comma separated voucher types (generate only)")
	actor := fs.String("actor", "", "recorded as created_by (generate only)")
	jsonOut := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args[1:]); err != nil {
		return ExitFailure
	}
	opts := Options{
		Year:       *year,
		Month:      *month,
		Types:      SplitTypes(*types),
		Actor:      *actor,
		JSONOutput: *jsonOut,
		Stdout:     stdout,
		Stderr:     stderr,
	}
	switch cmd {
	case "preview":
		return c.PreviewCommand(ctx, opts)
	case "generate":
		return c.GenerateCommand(ctx, opts)
	case "check":
		return c.CheckCommand(ctx, opts)
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n%s\n", cmd, usage)
		return ExitFailure
	}
}
