package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/salesynth/salesynth/internal/codec"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
	"github.com/salesynth/salesynth/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the dataset against its declared schema",
	Long: `Reads every table present in the output directory and checks table
completeness, referential closure along all declared foreign-key edges,
required columns and cross-table consistency rules. Exits non-zero when the
dataset has structural violations; consistency findings are warnings only.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	layout := codec.Layout{Root: cfg.Output}
	graph := schema.DefaultGraph()

	tables := make(map[string]*table.Table)
	for _, def := range schema.Definitions() {
		if _, err := os.Stat(layout.Path(def.ID)); err != nil {
			continue
		}
		t, err := layout.ReadCSV(def)
		if err != nil {
			return fmt.Errorf("read %s: %w", def.ID, err)
		}
		tables[def.ID.Name] = t
	}

	report := validate.Validate(tables, graph)

	for _, status := range report.Completeness {
		logger.WithFields(logrus.Fields{
			"table":   status.Table,
			"present": status.Present,
			"rows":    status.Rows,
		}).Debug("table status")
	}
	for _, v := range report.Referential {
		logger.WithFields(logrus.Fields{
			"edge":    v.Edge.String(),
			"orphans": v.Orphans,
			"samples": v.Samples,
		}).Error("referential violation")
	}
	for _, v := range report.Nulls {
		logger.WithFields(logrus.Fields{
			"table":  v.Table,
			"column": v.Column,
			"nulls":  v.Nulls,
		}).Error("null violation")
	}
	for _, w := range report.Warnings {
		logger.WithFields(logrus.Fields{
			"rule":    w.Rule,
			"rows":    w.Rows,
			"samples": w.Samples,
		}).Warn("consistency warning")
	}

	logger.WithFields(logrus.Fields{
		"tables":                 len(tables),
		"missing_tables":         len(report.MissingTables()),
		"referential_violations": report.ReferentialViolationCount(),
		"null_violations":        report.NullViolationCount(),
		"warnings":               len(report.Warnings),
	}).Info("validation complete")

	if !report.Passed() {
		return errors.New("dataset failed validation")
	}
	return nil
}
