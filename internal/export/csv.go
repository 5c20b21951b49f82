package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/intakeflow/intakeflow/internal/session"
)

// Options controls a lead export run.
type Options struct {
	MinScore int
	Quiet    bool // suppress the terminal progress bar
}

// Leads writes all sessions at or above opts.MinScore as CSV, best lead
// first, and returns the number of rows written.
func Leads(ctx context.Context, store *session.Store, w io.Writer, opts Options) (int, error) {
	leads, err := store.ListLeads(ctx, opts.MinScore)
	if err != nil {
		return 0, fmt.Errorf("loading leads: %w", err)
	}

	var bar *progressbar.ProgressBar
	if !opts.Quiet && len(leads) > 0 {
		bar = progressbar.NewOptions(len(leads),
			progressbar.OptionSetDescription("Exporting leads"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	cw := csv.NewWriter(w)
	header := []string{
		"session_id", "client_id", "lead_score", "stage", "tier",
		"urgency", "practice_area", "messages", "created_at", "updated_at",
	}
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for i, l := range leads {
		row := []string{
			l.SessionID,
			l.ClientID,
			strconv.Itoa(l.LeadScore),
			string(l.Stage),
			string(l.Tier),
			l.Urgency,
			l.PracticeArea,
			strconv.Itoa(l.Messages),
			l.CreatedAt.UTC().Format(time.RFC3339),
			l.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return i, fmt.Errorf("writing lead %s: %w", l.SessionID, err)
		}
		if bar != nil {
			_ = bar.Set(i + 1)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(leads), fmt.Errorf("flushing csv: %w", err)
	}
	return len(leads), nil
}
