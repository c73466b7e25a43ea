package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/salesynth/salesynth/internal/codec"
	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/sink"
	"github.com/salesynth/salesynth/internal/table"
)

var loadDSN string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the dataset into a PostgreSQL database",
	Long: `Reads every table present in the output directory and loads it into
PostgreSQL. Each table is dropped and recreated, then streamed with the
binary copy protocol. CSV files on disk remain the canonical output.`,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadDSN, "dsn", "", "PostgreSQL DSN (overrides config postgres_dsn)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	dsn := cfg.PostgresDSN
	if loadDSN != "" {
		dsn = loadDSN
	}
	if dsn == "" {
		return errors.New("no PostgreSQL DSN configured, set --dsn or postgres_dsn")
	}

	layout := codec.Layout{Root: cfg.Output}
	var tables []*table.Table
	for _, def := range schema.Definitions() {
		if _, err := os.Stat(layout.Path(def.ID)); err != nil {
			continue
		}
		t, err := layout.ReadCSV(def)
		if err != nil {
			return fmt.Errorf("read %s: %w", def.ID, err)
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return fmt.Errorf("no tables found under %s", cfg.Output)
	}

	ctx := context.Background()
	start := time.Now()
	db, err := sink.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.LoadAll(ctx, tables)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"tables":  len(tables),
		"rows":    rows,
		"elapsed": time.Since(start).String(),
	}).Info("dataset loaded")
	return nil
}
