package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/risk"
)

var (
	alertsSeverity string
	alertsIDs      string
	alertsStudents string
	alertsJSON     bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts [metrics-file]",
	Short: "Evaluate risk alerts",
	Long: `Evaluate per-student risk metrics against the configured thresholds.

Metrics are read from a YAML or JSON file holding a list of snapshots, or
built from the journal with --students, a YAML or JSON list of
{id, name, balance}.

Alert ids:
  ulid     - time-sortable, new on every run (default)
  sequence - alert-1, alert-2, ... in raise order
  hash     - stable per student, rule and UTC day

Examples:
  tradejournal alerts metrics.yaml --severity red
  tradejournal alerts --students students.yaml --ids hash --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.Flags().StringVarP(&alertsSeverity, "severity", "s", "all", "all, red or amber")
	alertsCmd.Flags().StringVar(&alertsIDs, "ids", "ulid", "alert id strategy: ulid, sequence or hash")
	alertsCmd.Flags().StringVar(&alertsStudents, "students", "", "build metrics from the journal for these students")
	alertsCmd.Flags().BoolVar(&alertsJSON, "json", false, "print alerts as JSON")
}

func idStrategy(name string) (risk.IDGenerator, error) {
	switch name {
	case "ulid":
		return risk.ULIDs, nil
	case "sequence":
		return &risk.Sequence{Prefix: "alert"}, nil
	case "hash":
		return risk.ContentHash, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q (want ulid, sequence or hash)", name)
	}
}

// readList decodes a JSON file by extension and anything else as YAML.
func readList[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var out []T
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &out)
	} else {
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func loadRiskMetrics(cmd *cobra.Command, args []string, now time.Time) ([]risk.Metrics, error) {
	switch {
	case len(args) == 1 && alertsStudents != "":
		return nil, fmt.Errorf("give either a metrics file or --students, not both")
	case len(args) == 1:
		return readList[risk.Metrics](args[0])
	case alertsStudents == "":
		return nil, fmt.Errorf("a metrics file or --students is required")
	}

	students, err := readList[risk.Student](alertsStudents)
	if err != nil {
		return nil, err
	}
	repo, err := openStore()
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	ctx := cmd.Context()
	ms := make([]risk.Metrics, 0, len(students))
	for _, s := range students {
		trades, err := repo.ListByUser(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("list trades of %s: %w", s.ID, err)
		}
		ms = append(ms, risk.MetricsFromTrades(s, trades, now))
	}
	return ms, nil
}

func runAlerts(cmd *cobra.Command, args []string) error {
	sev := risk.Severity(alertsSeverity)
	if sev != risk.SeverityAll && sev != risk.Red && sev != risk.Amber {
		return fmt.Errorf("unknown severity %q (want all, red or amber)", alertsSeverity)
	}
	ids, err := idStrategy(alertsIDs)
	if err != nil {
		return err
	}

	now := time.Now()
	ms, err := loadRiskMetrics(cmd, args, now)
	if err != nil {
		return err
	}

	ev := &risk.Evaluator{Thresholds: cfg.Risk, Clock: func() time.Time { return now }, IDs: ids}
	all := ev.Evaluate(ms)
	alerts := risk.FilterBySeverity(all, sev)
	counts := risk.Counts(all)

	out := cmd.OutOrStdout()
	if alertsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Alerts []risk.Alert     `json:"alerts"`
			Counts risk.AlertCounts `json:"counts"`
		}{alerts, counts})
	}

	fmt.Fprintf(out, "%d alerts (%d red, %d amber) for %d students\n", counts.Total, counts.Red, counts.Amber, len(ms))
	if len(alerts) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tSTUDENT\tTYPE\tMESSAGE\tID")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.Severity, a.StudentName, a.Type, a.Message, a.ID)
	}
	return tw.Flush()
}
