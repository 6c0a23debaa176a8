package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/scoring"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

func renderStats(st matchstore.Stats, colorize bool) string {
	rows := [][]string{
		{"Total names", strconv.Itoa(st.Total), ""},
		{"Matched", strconv.Itoa(st.Matched), percent(st.Matched, st.Total)},
		{fmt.Sprintf("  High (>= %.1f)", matchstore.HighConfidence), strconv.Itoa(st.High), percent(st.High, st.Total)},
		{fmt.Sprintf("  Medium (%.1f-%.1f)", matchstore.MediumConfidence, matchstore.HighConfidence), strconv.Itoa(st.Medium), percent(st.Medium, st.Total)},
		{fmt.Sprintf("  Low (< %.1f)", matchstore.MediumConfidence), strconv.Itoa(st.Low), percent(st.Low, st.Total)},
		{"Unmatched", strconv.Itoa(st.Unmatched), percent(st.Unmatched, st.Total)},
		{"Manually reviewed", strconv.Itoa(st.Reviewed), percent(st.Reviewed, st.Total)},
	}
	return renderTable([]string{"Metric", "Count", "Share"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight}, colorize)
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func renderRecord(rec *matchstore.Record, colorize bool) string {
	var b strings.Builder
	heading := fmt.Sprintf("== %s ==", rec.Name)
	if colorize {
		heading = ansiBlue + heading + ansiReset
	}
	b.WriteString(heading + "\n")
	fmt.Fprintf(&b, "  Publications:  %d (%d-%d)\n", rec.ArticleCount, rec.FirstPubYear, rec.LastPubYear)
	if rec.Matched() {
		chosen := fmt.Sprintf("%s %s", rec.ChosenID, rec.ChosenLabel)
		if colorize {
			chosen = ansiGreen + chosen + ansiReset
		}
		fmt.Fprintf(&b, "  Match:         %s\n", chosen)
		if rec.ChosenURL != "" {
			fmt.Fprintf(&b, "  Wikipedia:     %s\n", rec.ChosenURL)
		}
	} else {
		b.WriteString("  Match:         none\n")
	}
	fmt.Fprintf(&b, "  Confidence:    %.2f (%s)\n", rec.Confidence, matchstore.Bucket(*rec))
	fmt.Fprintf(&b, "  Reason:        %s\n", rec.MatchReason)
	fmt.Fprintf(&b, "  Reviewed:      %s\n", yesNo(rec.Reviewed))
	if !rec.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "  Updated:       %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	if len(rec.Candidates) == 0 {
		return strings.TrimRight(b.String(), "\n")
	}
	b.WriteString("\n")
	b.WriteString(renderCandidates(rec.ChosenID, rec.Candidates, colorize))
	return b.String()
}

func renderCandidates(chosenID string, candidates []scoring.Scored, colorize bool) string {
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		marker := ""
		if chosenID != "" && c.ID == chosenID {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			c.ID,
			c.Label,
			yearString(c.BirthYear),
			yearString(c.DeathYear),
			yesNo(c.IsHuman),
			yesNo(c.HasMembership),
			fmt.Sprintf("%.2f", c.Score),
			c.Reason(),
		})
	}
	return renderTable(
		[]string{"", "QID", "Label", "Born", "Died", "Human", "FRS", "Score", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		colorize,
	)
}

func yearString(y *int) string {
	if y == nil {
		return "-"
	}
	return strconv.Itoa(*y)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
