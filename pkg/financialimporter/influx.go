package financialimporter

import (
	"fmt"
	"strconv"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"
	"k8s.io/klog"
)

const balanceMeasurement = "balances"

type InfluxExporter struct {
	client      influx.Client
	database    string
	measurement string
}

func NewInfluxExporter(client influx.Client, database, measurement string) *InfluxExporter {
	return &InfluxExporter{client: client, database: database, measurement: measurement}
}

// Export writes one point per transaction and one balance point per account.
func (e *InfluxExporter) Export(accounts []Account, transactions []Transaction, now time.Time) (int, error) {
	bp, err := e.batchPoints(accounts, transactions, now)
	if err != nil {
		return 0, err
	}

	err = e.client.Write(bp)
	if err != nil {
		return 0, fmt.Errorf("error writing to influx: %w", err)
	}

	klog.Infof("Wrote %d points to influx database %s\n", len(bp.Points()), e.database)

	return len(bp.Points()), nil
}

func (e *InfluxExporter) batchPoints(accounts []Account, transactions []Transaction, now time.Time) (influx.BatchPoints, error) {
	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  e.database,
		Precision: "s",
	})
	if err != nil {
		return nil, fmt.Errorf("error creating batch points: %w", err)
	}

	keys := StorageKeys(transactions)
	for i, t := range transactions {
		pt, err := transactionPoint(e.measurement, t, keys[i])
		if err != nil {
			return nil, err
		}
		bp.AddPoint(pt)
	}

	for _, a := range accounts {
		balance, _ := a.Balance.Float64()
		pt, err := influx.NewPoint(balanceMeasurement, map[string]string{
			"account":  a.ID,
			"title":    a.Title,
			"currency": a.Instrument,
		}, map[string]interface{}{
			"balance": balance,
		}, now)
		if err != nil {
			return nil, fmt.Errorf("error adding balance point: %w", err)
		}
		bp.AddPoint(pt)
	}

	return bp, nil
}

func transactionPoint(measurement string, t Transaction, key string) (*influx.Point, error) {
	amount, _ := t.Posted.Amount.Float64()

	tags := map[string]string{
		"account":  t.Account.ID,
		"type":     string(t.Kind),
		"currency": t.Posted.Instrument,
		"hold":     strconv.FormatBool(t.Hold),
		"key":      key,
	}
	if t.Origin != nil {
		tags["originCurrency"] = t.Origin.Instrument
	}
	if t.Counterpart != nil {
		tags["counterpart"] = accountLabel(t.Counterpart.Account)
	}
	if t.Payee != nil {
		tags["payee"] = *t.Payee
	}

	pt, err := influx.NewPoint(measurement, tags, map[string]interface{}{
		"amount": amount,
	}, t.Date)
	if err != nil {
		return nil, fmt.Errorf("error adding transaction point: %w", err)
	}

	return pt, nil
}
