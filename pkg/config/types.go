package config

type Config struct {
	UpdateFrequency string          `json:"updateFrequency"`
	Priorbank       PriorbankConfig `json:"priorbank"`
}

type Secrets struct {
	SQL    SqlSecrets    `json:"sql"`
	Influx InfluxSecrets `json:"influx"`

	// Alternative to the Sql struct, designed to be used with heroku env variable
	DatabaseURL string `json:"databaseUrl" env:"DATABASE_URL"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Priorbank
///////////////////////////////////////////////////////////////////////////////////////

type PriorbankConfig struct {
	// Directory holding the fetched API responses
	SnapshotDir  string `json:"snapshotDir"`
	CardsFile    string `json:"cardsFile"`
	CardDescFile string `json:"cardDescFile"`
	// Date to import transactions after, MM-DD-YYYY
	ImportAfterDate string `json:"importAfterDate"`
	// Canonical accounts and transactions are written here as json when set
	OutputFile string `json:"outputFile"`

	SQL    SQLConfig    `json:"sql"`
	Influx InfluxConfig `json:"influx"`
}

type SQLConfig struct {
	Enabled           bool   `json:"enabled"`
	Database          string `json:"database"`
	TransactionsTable string `json:"transactionsTable"`
	AccountsTable     string `json:"accountsTable"`
	BatchSize         int    `json:"batchSize"`
}

type InfluxConfig struct {
	Enabled     bool   `json:"enabled"`
	Database    string `json:"database"`
	Measurement string `json:"measurement"`
}

type SqlSecrets struct {
	SqlHost     string `json:"sqlHost" env:"SQL_HOST"`
	SqlUsername string `json:"sqlUsername" env:"SQL_USERNAME"`
	SqlPassword string `json:"sqlPassword" env:"SQL_PASSWORD"`
}

type InfluxSecrets struct {
	InfluxEndpoint string `json:"influxEndpoint" env:"INFLUX_ENDPOINT"`
	InfluxUsername string `json:"influxUsername" env:"INFLUX_USERNAME"`
	InfluxPassword string `json:"influxPassword" env:"INFLUX_PASSWORD"`
}
