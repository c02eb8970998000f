package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/muesli/termenv"
)

// PairPlatform is the destination platform printed for paired phones.
const PairPlatform = "iOS"

// Options configure a Printer.
type Options struct {
	Format  Format
	ListAll bool // print every match instead of the best one
	IDOnly  bool // print bare UDIDs
	Color   bool

	// Render turns Markdown into terminal output. Nil prints the raw Markdown.
	Render func(string) (string, error)
}

// Printer writes lookup results to an output stream.
type Printer struct {
	out  io.Writer
	opts Options
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Printer{out: out, opts: opts}
}

type deviceRow struct {
	Platform string `json:"platform"`
	OS       string `json:"os,omitempty"`
	ID       string `json:"udid"`
	Name     string `json:"name"`
	State    string `json:"state,omitempty"`

	version *domain.RuntimeVersion
}

// PrintResult prints the best match, or every match with ListAll.
func (p *Printer) PrintResult(result findsimulator.Result) error {
	matches := result.Matches()
	if !p.opts.ListAll && len(matches) > 1 {
		matches = matches[:1]
	}

	rows := make([]deviceRow, 0, len(matches))
	for _, m := range matches {
		v := m.Version
		rows = append(rows, deviceRow{
			Platform: v.Platform,
			OS:       v.OS(),
			ID:       m.Device.ID,
			Name:     m.Device.Name,
			State:    m.Device.State,
			version:  &v,
		})
	}
	return p.print(rows)
}

// PrintPairs prints the first paired phone, or all of them with ListAll.
func (p *Printer) PrintPairs(phones []domain.Device) error {
	if !p.opts.ListAll && len(phones) > 1 {
		phones = phones[:1]
	}

	rows := make([]deviceRow, 0, len(phones))
	for _, d := range phones {
		rows = append(rows, deviceRow{
			Platform: PairPlatform,
			ID:       d.ID,
			Name:     d.Name,
			State:    d.State,
		})
	}
	return p.print(rows)
}

func (p *Printer) print(rows []deviceRow) error {
	switch p.opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if p.opts.ListAll {
			return enc.Encode(rows)
		}
		if len(rows) == 0 {
			return enc.Encode(nil)
		}
		return enc.Encode(rows[0])
	case FormatMarkdown:
		return p.printMarkdown(rows)
	default:
		return p.printText(rows)
	}
}

func (p *Printer) printText(rows []deviceRow) error {
	profile := termenv.Ascii
	if p.opts.Color {
		profile = termenv.ColorProfile()
	}

	for _, r := range rows {
		id := profile.String(r.ID).Foreground(profile.Color("#34d399")).String()
		line := id
		if !p.opts.IDOnly {
			line = Destination(r.Platform, r.version, domain.Device{ID: id, Name: r.Name}, p.opts.ListAll)
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printMarkdown(rows []deviceRow) error {
	var sb strings.Builder
	sb.WriteString("| Platform | OS | Name | UDID | State |\n")
	sb.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, r := range rows {
		osVersion := r.OS
		if osVersion == "" {
			osVersion = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | `%s` | %s |\n",
			PlatformLabel(r.Platform), osVersion, escapeCell(r.Name), r.ID, r.State)
	}

	out := sb.String()
	if p.opts.Render != nil {
		rendered, err := p.opts.Render(out)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		out = rendered
	}
	_, err := io.WriteString(p.out, out)
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
