package financialimporter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"k8s.io/klog"

	"github.com/bcaldwell/priorbank/pkg/postgresutils"
)

const defaultBatchSize = 1000

// keyNamespace scopes the sha1 keys of canonical rows so re-imports land on the same row.
var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/bcaldwell/priorbank/transactions"))

type SQLTransaction struct {
	bun.BaseModel       `bun:"table:transactions"`
	ID                  int64  `bun:",pk,autoincrement"`
	Key                 string `bun:",unique"`
	TransactionID       string
	Type                string
	Account             string
	TransactionDate     time.Time
	TransactionMonth    time.Time
	Hold                bool
	Amount              decimal.Decimal `bun:"type:numeric"`
	Currency            string
	OriginAmount        decimal.NullDecimal `bun:"type:numeric"`
	OriginCurrency      string
	Payee               string
	Comment             string `bun:"type:text"`
	CounterpartAccount  string
	CounterpartAmount   decimal.NullDecimal `bun:"type:numeric"`
	CounterpartCurrency string
	UpdatedAt           time.Time
}

func NewTransactionImporter(db *bun.DB, transactions []Transaction, importAfterDate time.Time, sqlTable string, batchSize int) *TransactionImporter {
	if batchSize == 0 {
		batchSize = defaultBatchSize
	}

	return &TransactionImporter{
		db:              db,
		transactions:    transactions,
		importAfterDate: importAfterDate,
		sqlTable:        sqlTable,
		batchSize:       batchSize,
	}
}

type TransactionImporter struct {
	db              *bun.DB
	transactions    []Transaction
	importAfterDate time.Time
	sqlTable        string
	batchSize       int
}

var _ FinancialImporter = (*TransactionImporter)(nil)

func (importer *TransactionImporter) Import() (int, error) {
	err := importer.Migrate()
	if err != nil {
		return 0, err
	}

	sqlRecords := importer.sqlRecords(time.Now())
	model := (*SQLTransaction)(nil)

	for i := 0; i < len(sqlRecords); i += importer.batchSize {
		endIndex := min(len(sqlRecords), i+importer.batchSize)

		records := sqlRecords[i:endIndex]
		_, err := importer.db.NewInsert().
			Model(&records).
			ModelTableExpr(importer.sqlTable).
			On("CONFLICT (key) DO UPDATE").
			Set(postgresutils.TableSetString(importer.db, model, "id", "key")).
			Exec(context.Background())
		if err != nil {
			return 0, fmt.Errorf("error writing transactions to sql: %w", err)
		}
	}

	klog.Infof("Wrote %d transactions to sql table %s\n", len(sqlRecords), importer.sqlTable)

	return len(sqlRecords), nil
}

func (importer *TransactionImporter) sqlRecords(updatedAt time.Time) []SQLTransaction {
	// set the initial size to 0 so append works but set cap to a good guess
	sqlRecords := make([]SQLTransaction, 0, len(importer.transactions))
	keys := StorageKeys(importer.transactions)

	for i, transaction := range importer.transactions {
		if transaction.Date.Before(importer.importAfterDate) {
			continue
		}

		sqlRecords = append(sqlRecords, NewSQLTransaction(transaction, keys[i], updatedAt))
	}

	return sqlRecords
}

func NewSQLTransaction(transaction Transaction, key string, updatedAt time.Time) SQLTransaction {
	t := transaction.Date
	transactionMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())

	row := SQLTransaction{
		Key:              key,
		Type:             string(transaction.Kind),
		Account:          transaction.Account.ID,
		TransactionDate:  t,
		TransactionMonth: transactionMonth,
		Hold:             transaction.Hold,
		Amount:           transaction.Posted.Amount,
		Currency:         transaction.Posted.Instrument,
		Payee:            stringValue(transaction.Payee),
		Comment:          stringValue(transaction.Comment),
		UpdatedAt:        updatedAt,
	}

	if transaction.ID != nil {
		row.TransactionID = *transaction.ID
	}

	if transaction.Origin != nil {
		row.OriginAmount = decimal.NewNullDecimal(transaction.Origin.Amount)
		row.OriginCurrency = transaction.Origin.Instrument
	}

	if c := transaction.Counterpart; c != nil {
		row.CounterpartAccount = accountLabel(c.Account)
		row.CounterpartAmount = decimal.NewNullDecimal(c.Posted.Amount)
		row.CounterpartCurrency = c.Posted.Instrument
	}

	return row
}

// StorageKey derives a stable row key for a lone transaction. Transactions
// with an id are keyed by account and id, transfers without one by their content.
func StorageKey(t Transaction) string {
	return StorageKeys([]Transaction{t})[0]
}

// StorageKeys keys a whole run. Same day events differ only by their time of
// day, which is not kept, so repeated content gets an occurrence suffix in
// input order.
func StorageKeys(transactions []Transaction) []string {
	keys := make([]string, len(transactions))
	seen := map[string]int{}

	for i, t := range transactions {
		content := storageContent(t)
		n := seen[content]
		seen[content] = n + 1
		if n > 0 {
			content += "#" + strconv.Itoa(n)
		}
		keys[i] = uuid.NewSHA1(keyNamespace, []byte(content)).String()
	}

	return keys
}

func storageContent(t Transaction) string {
	if t.ID != nil {
		return t.Account.ID + "|" + *t.ID
	}

	content := fmt.Sprintf("%s|%s|%s|%s %s", t.Kind, t.Account.ID, t.Date.Format(time.RFC3339), t.Posted.Amount.String(), t.Posted.Instrument)
	if t.Counterpart != nil {
		content += fmt.Sprintf("|%s|%s %s", accountLabel(t.Counterpart.Account), t.Counterpart.Posted.Amount.String(), t.Counterpart.Posted.Instrument)
	}
	return content
}

func accountLabel(a AccountRef) string {
	if a.ID != "" {
		return a.ID
	}
	return a.Type + ":" + a.Instrument
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (importer *TransactionImporter) Migrate() error {
	_, err := importer.db.NewCreateTable().Model((*SQLTransaction)(nil)).ModelTableExpr(importer.sqlTable).IfNotExists().Exec(context.Background())
	return err
}
