package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// csvHeader is the first line of every lead export.
const csvHeader = "Business Name,Address,Phone,Website,Rating,Status,Tags,Notes,Created At"

// ExportCSV renders the user's leads, newest first, as CSV.
func (s *LeadService) ExportCSV(ctx context.Context, userID string) ([]byte, error) {
	leads, err := s.List(ctx, ListLeadsInput{UserID: userID})
	if err != nil {
		return nil, err
	}
	return []byte(renderLeadsCSV(leads)), nil
}

// renderLeadsCSV writes text cells quoted with embedded quotes doubled and
// the rating cell unquoted.
func renderLeadsCSV(leads []*model.Lead) string {
	rows := make([]string, 0, len(leads)+1)
	rows = append(rows, csvHeader)

	for _, l := range leads {
		rating := ""
		if l.Rating != nil {
			rating = strconv.FormatFloat(*l.Rating, 'f', -1, 64)
		}
		cells := []string{
			quoteCSV(l.BusinessName),
			quoteCSV(l.Address),
			quoteCSV(l.Phone),
			quoteCSV(l.Website),
			rating,
			quoteCSV(string(l.Status)),
			quoteCSV(strings.Join(l.Tags, "; ")),
			quoteCSV(l.Notes),
			l.CreatedAt.UTC().Format(time.RFC3339),
		}
		rows = append(rows, strings.Join(cells, ","))
	}

	return strings.Join(rows, "\n")
}

func quoteCSV(s string) string {
	return fmt.Sprintf(`"%s"`, strings.ReplaceAll(s, `"`, `""`))
}
