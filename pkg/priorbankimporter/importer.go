package priorbankimporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"
	"github.com/uptrace/bun"
	"k8s.io/klog"

	"github.com/bcaldwell/priorbank/pkg/config"
	"github.com/bcaldwell/priorbank/pkg/financialimporter"
	"github.com/bcaldwell/priorbank/pkg/influxutils"
	"github.com/bcaldwell/priorbank/pkg/postgresutils"
	"github.com/bcaldwell/priorbank/pkg/priorbank"
)

type ImportPriorbankRunner struct {
	conf   *config.PriorbankConfig
	db     *bun.DB
	influx influx.Client
}

// Output is the file handed to the aggregator.
type Output struct {
	Accounts     []financialimporter.Account     `json:"accounts"`
	Transactions []financialimporter.Transaction `json:"transactions"`
}

func NewImportPriorbankRunner() (*ImportPriorbankRunner, error) {
	conf := config.CurrentPriorbankConfig()
	runner := &ImportPriorbankRunner{conf: conf}

	if conf.SQL.Enabled {
		db, err := postgresutils.CreatePostgresClient(conf.SQL.Database)
		if err != nil {
			return nil, fmt.Errorf("Error connecting to postgres DB: %s", err)
		}
		runner.db = db
		klog.Infof("Connected to postgres database %v\n", conf.SQL.Database)
	}

	if conf.Influx.Enabled {
		client, err := influxutils.CreateInfluxClient(config.CurrentInfluxSecrets())
		if err != nil {
			return nil, fmt.Errorf("Error creating InfluxDB Client: %s", err)
		}
		err = influxutils.CreateDatabase(client, conf.Influx.Database)
		if err != nil {
			return nil, err
		}
		runner.influx = client
	}

	return runner, nil
}

func (importer *ImportPriorbankRunner) Run() error {
	return importer.importPriorbank()
}

func (importer *ImportPriorbankRunner) Close() error {
	if importer.influx != nil {
		importer.influx.Close()
	}
	if importer.db != nil {
		return importer.db.Close()
	}
	return nil
}

func (importer *ImportPriorbankRunner) importPriorbank() error {
	snapshot, err := LoadSnapshot(importer.conf.CardsPath(), importer.conf.CardDescPath())
	if err != nil {
		return err
	}

	importAfterDate, err := importer.conf.ImportAfter()
	if err != nil {
		return err
	}

	result, err := priorbank.Convert(snapshot.Cards, snapshot.CardDescs)
	if err != nil {
		return fmt.Errorf("failed to convert priorbank snapshot: %w", err)
	}

	if len(result.EvictedCards) > 0 {
		slog.Info("dropped duplicate cards", "evicted", len(result.EvictedCards), "kept", len(result.Accounts))
	}

	transactions := filterTransactions(result.Transactions, importAfterDate)
	klog.Infof("Converted %d accounts and %d transactions\n", len(result.Accounts), len(transactions))

	if importer.conf.OutputFile != "" {
		err = writeOutput(importer.conf.OutputFile, Output{Accounts: result.Accounts, Transactions: transactions})
		if err != nil {
			return err
		}
	}

	if importer.db != nil {
		_, err = financialimporter.NewTransactionImporter(importer.db, transactions, importAfterDate, importer.conf.SQL.TransactionsTable, importer.conf.SQL.BatchSize).Import()
		if err != nil {
			return err
		}

		_, err = financialimporter.NewAccountImporter(importer.db, result.Accounts, time.Now(), importer.conf.SQL.AccountsTable).Import()
		if err != nil {
			return err
		}
	}

	if importer.influx != nil {
		exporter := financialimporter.NewInfluxExporter(importer.influx, importer.conf.Influx.Database, importer.conf.Influx.Measurement)
		_, err = exporter.Export(result.Accounts, transactions, time.Now())
		if err != nil {
			return err
		}
	}

	return nil
}

func filterTransactions(transactions []financialimporter.Transaction, importAfterDate time.Time) []financialimporter.Transaction {
	filtered := make([]financialimporter.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.Before(importAfterDate) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

func writeOutput(filename string, output Output) error {
	raw, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	err = os.WriteFile(filename, raw, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write output %s: %w", filename, err)
	}

	klog.Infof("Wrote %d transactions to %s\n", len(output.Transactions), filename)
	return nil
}
