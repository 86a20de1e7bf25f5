package db

import (
	"database/sql"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/arbikit/gmx-ccxt/common/config"
	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/arbikit/gmx-ccxt/database/db/watcherdb"
	"github.com/arbikit/gmx-ccxt/database/models"
	"github.com/arbikit/gmx-ccxt/types"
)

var logger = logging.NewLoggerTag("database")

var db *gorm.DB
var dbMutex sync.Mutex

// NewDB opens a gorm postgres handle with shared settings.
func NewDB(args string) (db *gorm.DB, err error) {
	dialector := postgres.Open(args)
	db, err = gorm.Open(dialector,
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			},
		},
	)
	if err != nil {
		logger.Warn("failed to open gorm db err=%v", err)
		return
	}
	db.Logger.LogMode(0)
	var sqlDB *sql.DB
	sqlDB, err = db.DB()
	if err != nil {
		logger.Warn("failed to get sql.DB from gorm db err=%v", err)
		return
	}

	sqlDB.SetMaxIdleConns(config.GetInt("DB_MAX_IDLE_CONNS", 2))
	sqlDB.SetMaxOpenConns(config.GetInt("DB_MAX_OPEN_CONNS", 10))
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return
}

// Initialize creates the connection instance, doesn't reset or migrate
// anything.
func Initialize() {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	if db != nil {
		return
	}
	logger.Info("Initializing database ...")
	handle, err := NewDB(config.GetString("DB_ARGS"))
	if err != nil {
		logger.Critical(err.Error())
	}
	db = handle
	logger.Info("Initialize DONE")
}

// Finalize closes the database.
func Finalize() {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to get db, err=%v", err)
		return
	}
	if err = sqlDB.Close(); err != nil {
		logger.Warn("failed to close db, err=%v", err)
	}
	db = nil
}

// GetDB returns the database handle.
func GetDB() *gorm.DB {
	dbMutex.Lock()
	ret := db
	dbMutex.Unlock()
	if ret != nil {
		return ret
	}
	Initialize()

	dbMutex.Lock()
	ret = db
	dbMutex.Unlock()
	if ret == nil {
		panic("gets nil db")
	}
	return ret
}

// Return DBApp given an app type.
func dbAppFromType(appType types.AppType) (dbApp DBApp) {
	switch appType {
	case types.Watcher:
		dbApp = &watcherdb.WatcherDBApp{}
	default:
		panic("undefined application environment")
	}
	return
}

// Reset resets the entire database: drops all app tables, recreates the
// schema and default records.
func Reset(db *gorm.DB, appType types.AppType, force bool) {
	dbApp := dbAppFromType(appType)

	if !force && !dbApp.IsEmpty(db) {
		logger.Critical("database exists, reset aborted.")
	}

	logger.Info("Resetting database ...")
	dropAllTables(db, dbApp)

	logger.Info("Creating models ...")
	err := Transaction(db, func(tx *gorm.DB) error {
		for _, model := range dbApp.Models() {
			if e := tx.AutoMigrate(model); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		panic(err)
	}

	err = Transaction(db, func(tx *gorm.DB) error {
		logger.Info("Creating indices ...")
		stmt := &gorm.Statement{DB: db}
		for _, model := range dbApp.Models() {
			if e := stmt.Parse(model); e != nil {
				logger.Warn("failed to parse model %+v, err=%v", model, e)
				continue
			}
			if e := CreateCustomIndices(tx, model, stmt.Schema.Table); e != nil {
				return e
			}
		}

		logger.Info("Running post reset hook ...")
		return dbApp.PostReset(tx)
	})
	if err != nil {
		panic(err)
	}
	logger.Info("Reset Done")
}

// Transaction wraps the database transaction and to proper error handling.
func Transaction(db *gorm.DB, body func(*gorm.DB) error) (err error) {
	tx := db.Begin()
	if tx.Error != nil {
		logger.Error("Transaction: Cannot open transaction %s", tx.Error.Error())
		return tx.Error
	}

	// Error checking and panic safenet.
	defer func() {
		if err != nil {
			logger.Warn("Transaction: rollback due to error: %v", err)
			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				panic(rollbackErr)
			}
		}

		if recovered := recover(); recovered != nil {
			logger.Error("Transaction: rollback due to panic: %v\n%s",
				recovered, string(debug.Stack()))

			err = tx.Rollback().Error
			if err != nil {
				logger.Error("Transaction: rollback failed: %v", err)
			}
			panic(recovered)
		}
	}()

	if err = body(tx); err != nil {
		return err
	}
	return tx.Commit().Error
}

// DeleteAllData deletes all rows of all app tables, keeping the schema.
func DeleteAllData(appType types.AppType) {
	dbApp := dbAppFromType(appType)

	logger.Info("`DELETE` data in all tables")
	handle := GetDB()
	tx := handle.Begin()
	allModels := dbApp.Models()
	stmt := &gorm.Statement{DB: handle}
	for i := len(allModels) - 1; i >= 0; i-- {
		if err := stmt.Parse(allModels[i]); err != nil {
			logger.Warn("failed to parse model %+v err=%v", allModels[i], err)
			continue
		}
		tx.Exec(fmt.Sprintf("DELETE FROM \"%v\"", stmt.Schema.Table))
	}
	tx.Commit()
	logger.Info("DeleteAllData Done")
}

// CreateCustomIndices creates custom indices if model implements models.CustomIndexer.
func CreateCustomIndices(tx *gorm.DB, model interface{}, tableName string) error {
	if m, ok := model.(models.CustomIndexer); ok {
		for _, idx := range m.Indexes() {
			unique := ""
			extension := ""
			if idx.Unique {
				unique = "UNIQUE"
			}
			if 0 != len(idx.Type) {
				extension = "USING " + idx.Type
			}
			columns := strings.Join(idx.Fields, ",")
			idxStat := fmt.Sprintf(
				`CREATE %s INDEX IF NOT EXISTS %s_%s ON "%s" %s(%s) %s`,
				unique, tableName, idx.Name, tableName, extension, columns, idx.Condition)
			err := tx.Model(model).Exec(idxStat).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func dropAllTables(db *gorm.DB, dbApp DBApp) {
	logger.Info("Dropping old tables ...")
	tx := db.Begin()
	stmt := &gorm.Statement{DB: db}

	for _, model := range dbApp.Models() {
		if err := stmt.Parse(model); err != nil {
			logger.Warn("failed to parse model %+v, err=%v", model, err)
			continue
		}
		sql := fmt.Sprintf("DROP TABLE IF EXISTS \"%s\" CASCADE", stmt.Schema.Table)
		if err := tx.Exec(sql).Error; err != nil {
			logger.Error("Exec '%s' failed. err: %s", sql, err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		panic(err)
	}
}
