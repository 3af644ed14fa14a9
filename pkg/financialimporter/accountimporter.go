package financialimporter

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"k8s.io/klog"

	"github.com/bcaldwell/priorbank/pkg/postgresutils"
)

const hoursInDay = 24

// SQLAccount is one balance snapshot of an account per day.
type SQLAccount struct {
	bun.BaseModel `bun:"table:accounts"`
	ID            int64  `bun:",pk,autoincrement"`
	Key           string `bun:",unique"`
	Date          time.Time
	AccountID     string
	Title         string
	Type          string
	SyncID        []string `bun:",array"`
	Currency      string
	Balance       decimal.Decimal `bun:"type:numeric"`
}

func NewAccountImporter(db *bun.DB, accounts []Account, date time.Time, sqlTable string) *AccountImporter {
	return &AccountImporter{
		db:       db,
		accounts: accounts,
		date:     date.UTC().Truncate(hoursInDay * time.Hour),
		sqlTable: sqlTable,
	}
}

type AccountImporter struct {
	db       *bun.DB
	accounts []Account
	date     time.Time
	sqlTable string
}

var _ FinancialImporter = (*AccountImporter)(nil)

func (importer *AccountImporter) Import() (int, error) {
	_, err := importer.db.NewCreateTable().Model((*SQLAccount)(nil)).ModelTableExpr(importer.sqlTable).IfNotExists().Exec(context.Background())
	if err != nil {
		return 0, fmt.Errorf("failed to create %s table: %w", importer.sqlTable, err)
	}

	if len(importer.accounts) == 0 {
		return 0, nil
	}

	rows := importer.sqlRecords()
	_, err = importer.db.NewInsert().
		Model(&rows).
		ModelTableExpr(importer.sqlTable).
		On("CONFLICT (key) DO UPDATE").
		Set(postgresutils.TableSetString(importer.db, (*SQLAccount)(nil), "id", "key")).
		Exec(context.Background())
	if err != nil {
		return 0, fmt.Errorf("error writing accounts to sql: %w", err)
	}

	klog.Infof("Wrote %d accounts to sql table %s\n", len(rows), importer.sqlTable)

	return len(rows), nil
}

func (importer *AccountImporter) sqlRecords() []SQLAccount {
	rows := make([]SQLAccount, 0, len(importer.accounts))
	for _, account := range importer.accounts {
		rows = append(rows, SQLAccount{
			Key:       fmt.Sprintf("%s::%s", importer.date.Format("01-02-2006"), account.ID),
			Date:      importer.date,
			AccountID: account.ID,
			Title:     account.Title,
			Type:      account.Type,
			SyncID:    account.SyncID,
			Currency:  account.Instrument,
			Balance:   account.Balance,
		})
	}
	return rows
}
