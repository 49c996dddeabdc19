// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/eventcsv/pkg/types"
)

// ReportBanner precedes the printed report.
const ReportBanner = "Here are some stats!"

// PrintReport writes the banner and the report in the requested format.
func PrintReport(w io.Writer, report types.Report, format types.StatsFormat) error {
	if err := CheckStatsFormat(format); err != nil {
		return err
	}
	fmt.Fprintln(w, ReportBanner)

	switch format {
	case types.StatsJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding JSON report: %w", err)
		}
	case types.StatsYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(4)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
	}
	return nil
}

// CheckStatsFormat rejects formats PrintReport cannot render.
func CheckStatsFormat(format types.StatsFormat) error {
	switch format {
	case types.StatsJSON, types.StatsYAML, "":
		return nil
	}
	return fmt.Errorf("unsupported stats format %q: use json or yaml", format)
}
