package driver

import (
	"encoding/json"
	"fmt"

	"nafi/internal/diag"
	"nafi/internal/observ"
	"nafi/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimings records timer's phases as an info diagnostic whose single
// note carries the JSON report. The entry is added even if bag is full.
func AppendTimings(bag *diag.Bag, kind, path string, timer *observ.Timer) {
	if bag == nil || timer == nil {
		return
	}
	rep := timer.Report()
	appendTimingDiagnostic(bag, timingPayload{
		Kind:    kind,
		Path:    path,
		TotalMS: rep.TotalMS,
		Phases:  rep.Phases,
	})
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(len(bag.Items()) + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
