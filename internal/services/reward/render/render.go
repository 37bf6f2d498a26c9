// Package render writes reward reports for people and for machines
package render

import (
	"encoding/json"
	"io"
	"text/tabwriter"
	"time"

	"conflux/internal/core/reward"
	perr "conflux/internal/platform/errors"
	"conflux/internal/services/reward/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formats lists the accepted -format values
var Formats = []string{"text", "json"}

// Write renders rep in the named format
func Write(w io.Writer, format string, rep domain.Report) error {
	switch format {
	case "", "text":
		return Text(w, rep)
	case "json":
		return JSON(w, rep)
	default:
		return perr.WithField(perr.InvalidArgf("unknown format %q", format), "format")
	}
}

// Text prints a counters table, then one payout line per contributor, then finished
func Text(w io.Writer, rep domain.Report) error {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "report %s generated %s\n", rep.RunID, rep.GeneratedAt.UTC().Format(time.RFC3339))
	p.Fprintf(w, "window %s .. %s\n", bound(rep.Window.From), bound(rep.Window.To))
	p.Fprintf(w, "submissions %d approvals %d orphans %d\n\n",
		rep.Stats.Submissions, rep.Stats.Approvals, rep.Stats.Aggregate.Orphans)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	p.Fprintf(tw, "contributor\ttranslated\tapproved\ttranslated chars\tapproved chars\t\n")
	for _, l := range rep.Rows {
		row(p, tw, l)
	}
	row(p, tw, rep.Totals)
	if err := tw.Flush(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "render table")
	}

	p.Fprintln(w)
	for _, l := range rep.Rows {
		p.Fprintf(w, "%s: %s %s\n", l.Contributor, l.Reward.String(), rep.Policy.Currency)
	}
	_, err := p.Fprintln(w, "finished")
	return err
}

func row(p *message.Printer, w io.Writer, l reward.Line) {
	c := l.Counters
	p.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t\n", l.Contributor, c.Translated, c.Approved, c.TranslatedChars, c.ApprovedChars)
}

func bound(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return t.UTC().Format(time.RFC3339)
}

// JSON writes rep as indented json
func JSON(w io.Writer, rep domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode report")
	}
	return nil
}
