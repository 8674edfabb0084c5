// Command mrt3sim runs the rail line service-scheme simulator: it
// validates a topology/demand configuration, executes a headless batch
// run of both the regular and skip-stop schemes, or serves the HTTP
// surface that accepts uploads and streams results.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/khen08/mrt3sim/driver"
	"github.com/khen08/mrt3sim/ingest"
	"github.com/khen08/mrt3sim/server"
	"github.com/khen08/mrt3sim/store"
)

var logger = log.New("module", "cli")

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, demandPath, reportPath, dbPath, addr string

	root := &cobra.Command{
		Use:   "mrt3sim",
		Short: "Discrete-event simulator for regular vs. skip-stop rail service",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(configPath)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = ingest.LoadConfigFromReader(f)
			if err != nil {
				return err
			}
			fmt.Println("configuration OK")
			return nil
		},
	}
	validateCmd.Flags().StringVar(&configPath, "config", "", "path to configuration JSON")
	validateCmd.MarkFlagRequired("config")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run both schemes headlessly and print/report results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := os.Open(configPath)
			if err != nil {
				return err
			}
			defer cfgFile.Close()
			cfg, err := ingest.LoadConfigFromReader(cfgFile)
			if err != nil {
				return err
			}

			demandFile, err := os.Open(demandPath)
			if err != nil {
				return err
			}
			defer demandFile.Close()
			valid := func(id int) bool { return id >= 1 && id <= len(cfg.StationNames) }
			demand, simDate, warnings, err := ingest.LoadDemandFromReader(demandFile, valid)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				logger.Warn("demand ingestion warning", "err", w)
			}
			if simDate.IsZero() {
				simDate = time.Now()
			}

			var sink store.Sink
			if dbPath != "" {
				sqliteSink, err := store.NewSQLiteSink(dbPath)
				if err != nil {
					return err
				}
				sink = sqliteSink
			} else {
				sink = store.NewMemorySink()
			}

			_, err = driver.RunBoth(cfg, demand, simDate, sink, driver.Options{ReportPath: reportPath, Logger: logger})
			return err
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "path to configuration JSON")
	runCmd.Flags().StringVar(&demandPath, "demand", "", "path to demand CSV")
	runCmd.Flags().StringVar(&reportPath, "report", "", "path or directory for the CSV report")
	runCmd.Flags().StringVar(&dbPath, "db", "", "optional sqlite database path for durable persistence")
	runCmd.MarkFlagRequired("config")
	runCmd.MarkFlagRequired("demand")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API for uploads, runs, and streaming",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sink store.Sink
			if dbPath != "" {
				sqliteSink, err := store.NewSQLiteSink(dbPath)
				if err != nil {
					return err
				}
				sink = sqliteSink
			} else {
				sink = store.NewMemorySink()
			}
			srv := server.New(sink, logger)
			logger.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, srv)
		},
	}
	serveCmd.Flags().StringVar(&dbPath, "db", "", "optional sqlite database path for durable persistence")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	root.AddCommand(validateCmd, runCmd, serveCmd)
	return root
}
