package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/asaidimu/go-tabula/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE "order items" (id INTEGER PRIMARY KEY, name TEXT, price REAL, note TEXT);
		INSERT INTO "order items" (id, name, price, note) VALUES
			(1, 'Laptop', 1200.5, NULL),
			(2, 'Mouse', 25, 'wireless'),
			(3, 'Keyboard', 75.25, 'mechanical');
	`)
	require.NoError(t, err)
	return db
}

func TestLoader_Load(t *testing.T) {
	db := setupDB(t)
	l := NewLoader(db, zap.NewNop())

	docs, err := l.Load(context.Background(), `SELECT id, name, price, note FROM "order items" WHERE price < ? ORDER BY id`, 100)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, int64(2), docs[0]["id"])
	assert.Equal(t, "Mouse", docs[0]["name"])
	assert.Equal(t, 25.0, docs[0]["price"])
	assert.Equal(t, "mechanical", docs[1]["note"])
}

func TestLoader_LoadEmptyResult(t *testing.T) {
	l := NewLoader(setupDB(t), nil)

	docs, err := l.Load(context.Background(), `SELECT * FROM "order items" WHERE id < 0`)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestLoader_LoadTable(t *testing.T) {
	l := NewLoader(setupDB(t), nil)

	docs, err := l.LoadTable(context.Background(), "order items")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Nil(t, docs[0]["note"])
	assert.Contains(t, docs[0], "price")

	_, err = l.LoadTable(context.Background(), "")
	assert.Error(t, err)

	_, err = l.LoadTable(context.Background(), "missing")
	assert.Error(t, err)
}

func TestLoader_InsideTransaction(t *testing.T) {
	db := setupDB(t)
	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO "order items" (id, name, price) VALUES (4, 'Monitor', 300)`)
	require.NoError(t, err)

	docs, err := NewLoader(tx, nil).LoadTable(context.Background(), "order items")
	require.NoError(t, err)
	assert.Len(t, docs, 4)
}

func TestLoadInto(t *testing.T) {
	type item struct {
		ID    int     `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	l := NewLoader(setupDB(t), nil)

	items, err := LoadInto[item](context.Background(), l, `SELECT id, name, price FROM "order items" ORDER BY price DESC`)
	require.NoError(t, err)
	assert.Equal(t, []item{
		{ID: 1, Name: "Laptop", Price: 1200.5},
		{ID: 3, Name: "Keyboard", Price: 75.25},
		{ID: 2, Name: "Mouse", Price: 25},
	}, items)

	_, err = LoadInto[item](context.Background(), l, `SELECT 'x' AS id`)
	assert.Error(t, err)
}

func TestLoader_Refresh(t *testing.T) {
	db := setupDB(t)
	l := NewLoader(db, nil)
	ds, err := table.New[table.Document](nil, nil)
	require.NoError(t, err)
	ds.Connect()

	require.NoError(t, l.Refresh(context.Background(), ds, `SELECT * FROM "order items"`))
	assert.Len(t, ds.RenderedRows(), 3)

	ds.SetFilter("wireless")
	assert.Len(t, ds.RenderedRows(), 1)

	err = l.Refresh(context.Background(), ds, `SELECT * FROM nowhere`)
	assert.Error(t, err)
	assert.Len(t, ds.Rows(), 3)
}

func TestLoader_BlobColumnsKeepBytes(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`
		CREATE TABLE attachments (name VARCHAR(20), body BLOB);
		INSERT INTO attachments VALUES ('logo', X'00FF10');
	`)
	require.NoError(t, err)

	docs, err := NewLoader(db, nil).LoadTable(context.Background(), "attachments")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "logo", docs[0]["name"])
	assert.Equal(t, []byte{0x00, 0xFF, 0x10}, docs[0]["body"])
}

func TestHasTextAffinity(t *testing.T) {
	assert.True(t, hasTextAffinity("TEXT"))
	assert.True(t, hasTextAffinity("varchar(20)"))
	assert.True(t, hasTextAffinity("CLOB"))
	assert.False(t, hasTextAffinity("BLOB"))
	assert.False(t, hasTextAffinity("INTEGER"))
	assert.False(t, hasTextAffinity(""))
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"items"`, quoteIdentifier("items"))
	assert.Equal(t, `"a""b"`, quoteIdentifier(`a"b`))
}
