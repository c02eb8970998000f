package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/internal/presentation"
	"github.com/aretw0/findsimulator/internal/presentation/tui"
	"github.com/aretw0/findsimulator/pkg/filter"
)

// RunOptions contains the flags of the lookup commands.
// Empty strings and false booleans defer to the config file.
type RunOptions struct {
	ConfigPath   string
	Inventory    string
	LogLevel     string
	Color        string
	Strict       bool
	LenientRegex bool

	Platform     string
	Major        string
	Minor        string
	Regex        string
	NameContains string

	Pairs   bool
	ListAll bool
	IDOnly  bool
	Format  string
}

// Execute handles the root command: a device lookup, or a pair lookup with Pairs.
func Execute(ctx context.Context, opts RunOptions, out io.Writer) error {
	format, err := presentation.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	a, err := createApp(opts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	printer := presentation.NewPrinter(out, presentation.Options{
		Format:  format,
		ListAll: opts.ListAll,
		IDOnly:  opts.IDOnly,
		Color:   useColor(a.cfg.Color, out),
		Render:  markdownRenderer(format, out),
	})

	if opts.Pairs {
		phones, err := a.finder.FindPairs(ctx, filter.Substring(opts.NameContains))
		if err != nil {
			return err
		}
		return printer.PrintPairs(phones)
	}

	query, err := findsimulator.NewQuery(findsimulator.QueryOptions{
		Platform:       a.cfg.Platform,
		Major:          a.cfg.Major,
		Minor:          a.cfg.Minor,
		NameContains:   opts.NameContains,
		Pattern:        a.cfg.Regex,
		LenientPattern: a.cfg.LenientRegex,
	})
	if err != nil {
		return err
	}

	result, err := a.finder.Find(ctx, query)
	if err != nil {
		return err
	}
	return printer.PrintResult(result)
}

func useColor(mode string, out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return mode == "always"
	}
	return tui.UseColor(mode, f)
}

// markdownRenderer returns glamour rendering for terminals; pipes get raw Markdown.
func markdownRenderer(format presentation.Format, out io.Writer) func(string) (string, error) {
	if format != presentation.FormatMarkdown {
		return nil
	}
	f, ok := out.(*os.File)
	if !ok || !tui.IsTerminal(f) {
		return nil
	}
	render, err := tui.NewRenderer(tui.Width(f))
	if err != nil {
		return nil
	}
	return render
}
