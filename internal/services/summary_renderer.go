package services

import (
	"fmt"
	"html"
	"strings"

	"stmtrecon/internal/recon"
	"stmtrecon/internal/validate"
)

// RenderSummaryBody renders the HTML body of a run summary email.
func RenderSummaryBody(runID string, res recon.Result) string {
	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #0b6a0b; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">Reconciliation Run %s</h2>
				</div>
				<div style="padding: 20px;">
					<p><b>%d</b> of <b>%d</b> credit transactions present in register.</p>
					<p><b>%d</b> commission mismatches.</p>
					%s
					%s
				</div>
			</div>
		</body>
		</html>
	`,
		html.EscapeString(runID),
		res.Matched(), len(res.Matches),
		res.CommissionMismatches(),
		renderErrorSection("Transaction data errors", res.TransactionErrors),
		renderErrorSection("Register data errors", res.RegisterErrors),
	)
}

func renderErrorSection(title string, errs []validate.Error) string {
	if len(errs) == 0 {
		return ""
	}

	var items strings.Builder
	for _, e := range errs {
		items.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(e.String())))
	}

	return fmt.Sprintf(`
		<div style="background-color: #fff4f4; border-left: 5px solid #d13438; padding: 15px; margin-bottom: 20px;">
			<h3 style="color: #d13438; margin-top: 0; font-size: 18px;">%s</h3>
			<ul style="margin-bottom: 0; padding-left: 20px;">
				%s
			</ul>
		</div>
	`, html.EscapeString(title), items.String())
}
