package regional

import (
	"time"

	"github.com/jmoiron/sqlx"
)

const insertQueryLogStatement = "insert into query_logs ( " +
	"submit_datetime, " +
	"sql_content) " +
	"values (?, ?) " +
	"on conflict do nothing"

// RecordQueryLog saves the text of a user-submitted query with the current
// UTC timestamp.
func RecordQueryLog(db *sqlx.DB, sqlContent string) error {
	statementString := db.Rebind(insertQueryLogStatement)
	_, err := db.Exec(statementString, time.Now().UTC(), sqlContent)
	return err
}
