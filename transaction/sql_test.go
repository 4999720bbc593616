package transaction

import (
	"testing"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
)

func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("unable to open sqlite: %v", err)
	}
	// every connection to :memory: is a separate database.
	db.DB().SetMaxOpenConns(1)
	return db
}

func TestSQLSourceReadsGroupedRecords(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	assert.Nil(t, CreateTable(db, ""))
	assert.Nil(t, CreateTable(db, ""), "create should be idempotent")
	err := InsertRecords(db, "", []Record{
		{TID: "2", Time: "10", Item: "a", Number: "1"},
		{TID: "1", Time: "11", Item: "b", Number: "1"},
		{TID: "2", Time: "12", Item: "c", Number: "1"},
		{TID: "1", Time: "13", Item: "a", Number: "1"},
	})
	assert.Nil(t, err)

	src := NewSQLSource(db, "")
	defer src.Close()

	trns := collect(t, src)
	assert.Equal(t, []Transaction{
		{TID: "1", Items: []string{"b", "a"}},
		{TID: "2", Items: []string{"a", "c"}},
	}, trns)

	assert.Nil(t, src.Reset())
	again := collect(t, src)
	assert.Equal(t, trns, again)
}

func TestSQLSourceMissingTable(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	src := NewSQLSource(db, "missing")
	_, err := src.Next()
	assert.NotNil(t, err)
}
