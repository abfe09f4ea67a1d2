package pkg

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/testutil"
)

type txNote struct {
	ID   uint
	Body string
}

func TestWithTx_CommitOnSuccess(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), db, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE members SET status = ?", "locked").Error
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, func(*gorm.DB) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackAndRepanic(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = WithTx(context.Background(), db, func(*gorm.DB) error { panic("kaboom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))
	called := false

	err := WithTx(context.Background(), db, func(*gorm.DB) error { called = true; return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.False(t, called)
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := WithTx(context.Background(), db, func(*gorm.DB) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit transaction")
}

func TestWithTx_SQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t, &txNote{})
	ctx := context.Background()

	require.NoError(t, WithTx(ctx, db, func(tx *gorm.DB) error {
		return tx.Create(&txNote{Body: "kept"}).Error
	}))
	err := WithTx(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Create(&txNote{Body: "dropped"}).Error; err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	var notes []txNote
	require.NoError(t, db.Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, "kept", notes[0].Body)
}
