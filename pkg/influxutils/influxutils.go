package influxutils

import (
	"fmt"
	"strings"

	influx "github.com/influxdata/influxdb/client/v2"

	"github.com/bcaldwell/priorbank/pkg/config"
)

func CreateInfluxClient(secrets *config.InfluxSecrets) (influx.Client, error) {
	return influx.NewHTTPClient(influx.HTTPConfig{
		Addr:     secrets.InfluxEndpoint,
		Username: secrets.InfluxUsername,
		Password: secrets.InfluxPassword,
	})
}

func CreateDatabase(client influx.Client, name string) error {
	q := influx.NewQuery(fmt.Sprintf("CREATE DATABASE %s", databaseName(name)), "", "")
	response, err := client.Query(q)
	if err != nil {
		return fmt.Errorf("failed to create influx database %s: %w", name, err)
	}
	return response.Error()
}

// databaseName is the first word of name.
func databaseName(name string) string {
	return strings.Split(strings.TrimSpace(name), " ")[0]
}
