package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilityaudit/internal/db"
	"facilityaudit/internal/db/dbtest"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/model"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "postgresql"} {
		d, err := db.Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := db.Dialector("oracle", "dsn")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrateAndReset(t *testing.T) {
	gormDB := dbtest.New(t)

	for _, m := range model.AllModels() {
		assert.True(t, gormDB.Migrator().HasTable(m))
	}

	db.Reset(gormDB, logger.GetDefault())

	for _, m := range model.AllModels() {
		assert.False(t, gormDB.Migrator().HasTable(m))
	}
}
