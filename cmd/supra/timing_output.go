package main

import (
	"encoding/json"
	"fmt"

	"supra/internal/diag"
	"supra/internal/observ"
	"supra/internal/source"
)

// appendTimingDiagnostic adds the phase report as an info diagnostic so that
// JSON consumers receive timings in the same document. The report is carried
// as a JSON note.
func appendTimingDiagnostic(bag *diag.Bag, report observ.Report) {
	if bag == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	entry := &diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  fmt.Sprintf("timings: total %.2f ms", report.TotalMS),
		Primary:  source.Span{},
		Notes:    []diag.Note{{Span: source.Span{}, Msg: string(data)}},
	}
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
