package application

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ahrav/go-scrutineer/internal/domain"
)

// Limits on how much of each rollup the summary prints. The full data
// is always in the report document; the summary is a glance.
const (
	summaryTopProvinces = 5
	summaryTopParties   = 5
	summaryTopAnomalies = 10
)

// PrintSummary writes the human-readable run summary to w: the
// completion banner, the top provinces by ghost votes, the top winning
// parties by flagged areas, and a table of the highest-scored
// anomalies. Vote totals are printed with grouped thousands because
// province-level ghost-vote sums routinely reach six digits.
func PrintSummary(w io.Writer, report *domain.AuditReport, reportPath string) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\nAnalysis complete. Found %d anomalies.\n", len(report.Anomalies))
	fmt.Fprintf(w, "Report saved to: %s\n", reportPath)

	fmt.Fprintf(w, "\n=== Top %d Provinces by Anomalies ===\n", summaryTopProvinces)
	for _, prov := range top(report.ProvinceStats, summaryTopProvinces) {
		p.Fprintf(w, "%s: %d areas, %d ghost votes\n",
			prov.Name, prov.Count, prov.TotalGhostVotes)
	}

	fmt.Fprintf(w, "\n=== Top %d MP Parties involved ===\n", summaryTopParties)
	for _, party := range top(report.MPPartyStats, summaryTopParties) {
		p.Fprintf(w, "%s: %d areas, %d ghost votes\n",
			party.PartyCode, party.Count, party.TotalGhostVotes)
	}

	fmt.Fprintf(w, "\n=== Top %d Anomalies (Sorted by Twin Party Votes) ===\n", summaryTopAnomalies)
	fmt.Fprintf(w, "%-6s | %-6s | %-12s | %-10s | %-14s | %-14s\n",
		"Area", "MP Num", "Twin Party", "Twin Rank", "Twin PL Votes", "Twin MP Votes")
	fmt.Fprintln(w, "--------------------------------------------------------------------------------")
	for _, a := range top(report.Anomalies, summaryTopAnomalies) {
		p.Fprintf(w, "%-6s | %-6s | %-12s | %-10d | %-14d | %-14d\n",
			a.AreaCode, a.MPWinnerNumber, a.PLTwinParty,
			a.PLTwinRank, a.PLTwinVotes, a.MPTwinCandidateVotes)
	}
}

// top returns the first n elements of s, or all of s when it is shorter.
func top[T any](s []T, n int) []T {
	if len(s) < n {
		return s
	}
	return s[:n]
}
