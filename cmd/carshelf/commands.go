package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"CarShelf/internal/catalog"
	"CarShelf/internal/catalogclient"
	"CarShelf/internal/shortlist"
)

const (
	viewLimit  = 6
	loadFailed = "Error loading cars. Please try again later."
)

const usage = `usage: carshelf [-api URL] [-dir DIR] [-v] <command> [args]

commands:
  list       list cars (-brand -fuel -min-price -max-price -seats -sort -page -limit)
  show ID    show one car
  toggle ID  add or remove a car from the shortlist
  shortlist  print the saved shortlist
`

type app struct {
	client *catalogclient.Client
	list   *shortlist.Store
	log    *zap.Logger
	out    io.Writer
	errOut io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("carshelf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := fs.String("api", getenv("CARSHELF_API", "http://localhost:8082"), "catalog service base URL")
	dir := fs.String("dir", getenv("CARSHELF_DIR", defaultDir()), "directory holding the shortlist")
	verbose := fs.Bool("v", false, "log debug output to stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := newCLILogger(stderr, *verbose)
	defer func() { _ = log.Sync() }()

	slot, err := shortlist.NewFileSlot(*dir, shortlist.DefaultKey)
	if err != nil {
		fmt.Fprintf(stderr, "cannot open shortlist: %v\n", err)
		return 1
	}

	a := &app{
		client: catalogclient.New(*apiURL),
		list:   shortlist.NewStore(slot, log),
		log:    log,
		out:    stdout,
		errOut: stderr,
	}
	a.list.Load(ctx)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		err = a.cmdList(ctx, rest)
	case "show":
		err = a.cmdShow(ctx, rest)
	case "toggle":
		err = a.cmdToggle(ctx, rest)
	case "shortlist":
		err = a.cmdShortlist()
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	return a.exitCode(err)
}

var errUsage = errors.New("usage")

func (a *app) exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(a.errOut, err)
		return 2
	case errors.Is(err, catalogclient.ErrUnavailable),
		errors.Is(err, catalogclient.ErrBadStatus),
		errors.Is(err, catalogclient.ErrBadResponse):
		a.log.Warn("catalog request failed", zap.Error(err))
		fmt.Fprintln(a.errOut, loadFailed)
		return 1
	default:
		fmt.Fprintln(a.errOut, err)
		return 1
	}
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)

	// Numbers stay strings so that an unset flag is an absent filter.
	params := map[string]*string{
		catalog.ParamBrand:    fs.String("brand", "", "brand, case-insensitive"),
		catalog.ParamFuelType: fs.String("fuel", "", "fuel type, case-insensitive"),
		catalog.ParamMinPrice: fs.String("min-price", "", "minimum price"),
		catalog.ParamMaxPrice: fs.String("max-price", "", "maximum price"),
		catalog.ParamSeats:    fs.String("seats", "", "minimum seating capacity"),
		catalog.ParamSort:     fs.String("sort", string(catalog.SortPriceAsc), "price_asc, price_desc or year_desc"),
		catalog.ParamPage:     fs.String("page", "1", "page number"),
		catalog.ParamLimit:    fs.String("limit", strconv.Itoa(viewLimit), "cars per page"),
	}
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	v := url.Values{}
	for k, p := range params {
		if *p != "" {
			v.Set(k, *p)
		}
	}
	q := catalog.ParseQuery(v, viewLimit)

	res, err := a.client.Search(ctx, q)
	if err != nil {
		return err
	}

	if len(res.Cars) == 0 && res.TotalCars > 0 {
		fmt.Fprintf(a.out, "Page %d is out of range: %d cars on %d pages  %s\n",
			res.CurrentPage, res.TotalCars, res.TotalPages, pageBar(res.CurrentPage, res.TotalPages))
		return nil
	}
	if len(res.Cars) == 0 {
		fmt.Fprintln(a.out, "No cars found matching your criteria.")
		fmt.Fprintln(a.out, "Try adjusting your filters to see more results.")
		return nil
	}

	a.printTable(res.Cars)
	fmt.Fprintf(a.out, "\n%d cars, page %d of %d  %s\n",
		res.TotalCars, res.CurrentPage, res.TotalPages, pageBar(res.CurrentPage, res.TotalPages))
	return nil
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	it, ok, err := a.client.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("car %d not found", id)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s %s\t(%d)\n", it.Brand, it.Model, it.Year)
	fmt.Fprintf(w, "Price\t%s\n", formatPrice(it.Price))
	fmt.Fprintf(w, "Fuel\t%s\n", it.FuelType)
	fmt.Fprintf(w, "Seats\t%d\n", it.SeatingCapacity)
	fmt.Fprintf(w, "Engine\t%s\n", it.Specifications.Engine)
	fmt.Fprintf(w, "Mileage\t%s\n", it.Specifications.Mileage)
	fmt.Fprintf(w, "Color\t%s\n", it.Specifications.Color)
	fmt.Fprintf(w, "Transmission\t%s\n", it.Specifications.Transmission)
	fmt.Fprintf(w, "Image\t%s\n", it.Image)
	fmt.Fprintf(w, "Shortlisted\t%s\n", yesNo(a.list.Contains(it.ID)))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%s\n", it.Description)
	return nil
}

func (a *app) cmdToggle(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	it, ok, err := a.client.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		// Saved snapshots outlive the inventory; still allow removing them.
		removed, rerr := a.list.Remove(ctx, id)
		if rerr != nil {
			return rerr
		}
		if removed {
			fmt.Fprintf(a.out, "removed %d from shortlist\n", id)
			return nil
		}
		return fmt.Errorf("car %d not found", id)
	}

	added, err := a.list.Toggle(ctx, it)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(a.out, "added %s %s to shortlist\n", it.Brand, it.Model)
	} else {
		fmt.Fprintf(a.out, "removed %s %s from shortlist\n", it.Brand, it.Model)
	}
	return nil
}

func (a *app) cmdShortlist() error {
	items := a.list.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your shortlist is empty")
		return nil
	}
	a.printTable(items)
	return nil
}

func (a *app) printTable(items []catalog.Item) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tCAR\tYEAR\tFUEL\tSEATS\tPRICE")
	for _, it := range items {
		mark := " "
		if a.list.Contains(it.ID) {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%s %s\t%d\t%s\t%d\t%s\n",
			mark, it.ID, it.Brand, it.Model, it.Year, it.FuelType, it.SeatingCapacity, formatPrice(it.Price))
	}
	_ = w.Flush()
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected one car id", errUsage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid car id %q", errUsage, args[0])
	}
	return id, nil
}

func pageBar(current, total int) string {
	var b strings.Builder
	for i, p := range catalog.PageNumbers(current, total) {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch p {
		case catalog.Gap:
			b.WriteString("...")
		case current:
			fmt.Fprintf(&b, "[%d]", p)
		default:
			b.WriteString(strconv.Itoa(p))
		}
	}
	return b.String()
}

// formatPrice renders whole currency units with thousands separators.
func formatPrice(p int64) string {
	s := strconv.FormatInt(p, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newCLILogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}
