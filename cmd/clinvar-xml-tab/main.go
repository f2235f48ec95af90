// Command clinvar-xml-tab converts ClinVar XML releases to TSV or VCF.
package main

import (
	"clinvartab/internal/app"
	"clinvartab/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
