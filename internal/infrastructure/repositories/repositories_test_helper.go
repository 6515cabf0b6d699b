package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		phone_number TEXT,
		date_of_birth DATETIME,
		address TEXT,
		profile_picture TEXT,
		role TEXT NOT NULL DEFAULT 'user',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createCatalogTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE countries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		code TEXT UNIQUE NOT NULL,
		image_url TEXT,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE visa_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		headings TEXT,
		description TEXT,
		price TEXT,
		processing_time TEXT,
		image_url TEXT,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE visa_processes (
		id TEXT PRIMARY KEY,
		points TEXT NOT NULL
	);`)
	mustExec(t, db, `CREATE TABLE visa_overviews (
		id TEXT PRIMARY KEY,
		points TEXT NOT NULL,
		overview TEXT
	);`)
	mustExec(t, db, `CREATE TABLE notes (
		id TEXT PRIMARY KEY,
		notes TEXT NOT NULL
	);`)
	mustExec(t, db, `CREATE TABLE required_documents (
		id TEXT PRIMARY KEY,
		document_name TEXT NOT NULL
	);`)
	mustExec(t, db, `CREATE TABLE country_visa_types (
		country_id TEXT NOT NULL,
		visa_type_id TEXT NOT NULL,
		PRIMARY KEY (country_id, visa_type_id)
	);`)
	mustExec(t, db, `CREATE TABLE visa_type_processes (
		visa_type_id TEXT NOT NULL,
		visa_process_id TEXT NOT NULL,
		PRIMARY KEY (visa_type_id, visa_process_id)
	);`)
	mustExec(t, db, `CREATE TABLE visa_type_overviews (
		visa_type_id TEXT NOT NULL,
		visa_overview_id TEXT NOT NULL,
		PRIMARY KEY (visa_type_id, visa_overview_id)
	);`)
	mustExec(t, db, `CREATE TABLE visa_type_notes (
		visa_type_id TEXT NOT NULL,
		note_id TEXT NOT NULL,
		PRIMARY KEY (visa_type_id, note_id)
	);`)
	mustExec(t, db, `CREATE TABLE visa_type_required_documents (
		visa_type_id TEXT NOT NULL,
		required_document_id TEXT NOT NULL,
		PRIMARY KEY (visa_type_id, required_document_id)
	);`)
}

func createApplicationTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE visa_applications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		country_id TEXT NOT NULL,
		visa_type_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft',
		admin_notes TEXT,
		rejection_reason TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE application_documents (
		id TEXT PRIMARY KEY,
		application_id TEXT NOT NULL,
		required_document_id TEXT NOT NULL,
		file_url TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		admin_notes TEXT,
		rejection_reason TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (application_id, required_document_id)
	);`)
}
