package report

import (
	"fmt"
	"strings"

	"stmtrecon/internal/recon"
	"stmtrecon/internal/validate"
)

// RenderSummary renders the human-readable run summary printed after the
// output tables are written.
func RenderSummary(res recon.Result) string {
	var b strings.Builder

	renderDataset(&b, "transactions", res.TransactionErrors)
	renderDataset(&b, "register", res.RegisterErrors)

	fmt.Fprintf(&b, "%d of %d credit transactions present in register\n",
		res.Matched(), len(res.Matches))
	fmt.Fprintf(&b, "%d commission mismatches\n", res.CommissionMismatches())

	return b.String()
}

func renderDataset(b *strings.Builder, name string, errs []validate.Error) {
	if len(errs) == 0 {
		fmt.Fprintf(b, "%s: all data valid\n", name)
		return
	}
	fmt.Fprintf(b, "%s: %d validation errors\n", name, len(errs))
	for _, e := range errs {
		fmt.Fprintf(b, "  %s\n", e)
	}
}
