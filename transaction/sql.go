package transaction

import (
	"database/sql"
	"io"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultTable is the table SQLSource reads when none is configured.
const DefaultTable = "transactions"

// RecordRow is the row layout SQLSource expects. ID only fixes the order of
// records inside a transaction.
type RecordRow struct {
	ID     uint64 `gorm:"primary_key;auto_increment"`
	TID    string `gorm:"column:tid;index"`
	Time   string `gorm:"column:time"`
	Item   string `gorm:"column:item;not null"`
	Number string `gorm:"column:number"`
}

// SQLSource streams records of one table ordered by tid, then id, so records
// of a transaction are always adjacent.
type SQLSource struct {
	db    *gorm.DB
	table string
	rows  *sql.Rows
}

func NewSQLSource(db *gorm.DB, table string) *SQLSource {
	if table == "" {
		table = DefaultTable
	}
	return &SQLSource{db: db, table: table}
}

// CreateTable creates the records table if it does not exist.
func CreateTable(db *gorm.DB, table string) error {
	if table == "" {
		table = DefaultTable
	}
	if db.HasTable(table) {
		return nil
	}
	return db.Table(table).CreateTable(&RecordRow{}).Error
}

// InsertRecords appends records to the table in order, in one database
// transaction.
func InsertRecords(db *gorm.DB, table string, records []Record) error {
	if table == "" {
		table = DefaultTable
	}
	tx := db.Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin insert")
	}
	for _, rec := range records {
		row := RecordRow{TID: rec.TID, Time: rec.Time, Item: rec.Item, Number: rec.Number}
		if err := tx.Table(table).Create(&row).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "failed to insert record")
		}
	}
	return errors.Wrap(tx.Commit().Error, "failed to commit records")
}

func (ss *SQLSource) Reset() error {
	if err := ss.Close(); err != nil {
		return err
	}
	rows, err := ss.db.Table(ss.table).
		Select("tid, time, item, number").
		Order("tid asc, id asc").
		Rows()
	if err != nil {
		log.WithFields(log.Fields{"table": ss.table, "err": err}).Error("Failed to query transactions.")
		return errors.Wrap(err, "failed to query transactions")
	}
	ss.rows = rows
	return nil
}

func (ss *SQLSource) Next() (Record, error) {
	if ss.rows == nil {
		if err := ss.Reset(); err != nil {
			return Record{}, err
		}
	}
	if !ss.rows.Next() {
		if err := ss.rows.Err(); err != nil {
			return Record{}, errors.Wrap(err, "failed to read transactions")
		}
		return Record{}, io.EOF
	}
	var row RecordRow
	if err := ss.db.ScanRows(ss.rows, &row); err != nil {
		return Record{}, errors.Wrap(err, "failed to scan transaction row")
	}
	if row.Item == "" {
		return Record{}, errors.Wrapf(ErrMalformedRecord, "empty item for tid %s", row.TID)
	}
	return Record{TID: row.TID, Time: row.Time, Item: row.Item, Number: row.Number}, nil
}

func (ss *SQLSource) Close() error {
	if ss.rows == nil {
		return nil
	}
	err := ss.rows.Close()
	ss.rows = nil
	return err
}
