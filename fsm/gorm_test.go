package fsm_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/Nnenty/telers/fsm"
)

func newMockDB(t *testing.T) *gorm.DB {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite in memory")
	}

	poolDB, err := gorm.Open(
		gorm.Dialector(
			sqlite.Dialector{
				Conn:       sqlDB,
				DriverName: "sqlite",
			},
		), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}

	return poolDB
}

func TestGormStorage_AutoMigrateWorks(t *testing.T) {
	poolDB := newMockDB(t)

	_, err := fsm.NewGorm(poolDB, nil)

	require.NoError(t, err)
	assert.True(t, poolDB.Migrator().HasTable(&fsm.Record{}))
}

func TestGormStorage_Contract(t *testing.T) {
	storage, err := fsm.NewGorm(newMockDB(t), nil)

	require.NoError(t, err)

	runStorageContract(t, storage)
}

func TestGormStorage_ContractWithMsgpack(t *testing.T) {
	storage, err := fsm.NewGorm(newMockDB(t), fsm.MsgpackCodec{})

	require.NoError(t, err)

	runStorageContract(t, storage)
}
