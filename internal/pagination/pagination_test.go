package pagination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestPageRequest_Defaults(t *testing.T) {
	cases := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Page: 1, PageSize: DefaultPageSize}},
		{PageRequest{Page: 3, PageSize: 10}, PageRequest{Page: 3, PageSize: 10}},
		{PageRequest{Page: -1, PageSize: 1000}, PageRequest{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tc := range cases {
		got := tc.in
		got.Defaults()
		assert.Equal(t, tc.want, got)
	}

	p := PageRequest{Page: 3, PageSize: 10}
	assert.Equal(t, 20, p.Offset())
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, 1, 20, 41)
	assert.Equal(t, 3, resp.TotalPages)
	assert.NotNil(t, resp.Data, "nil slices serialise as []")
}

type row struct {
	ID    int
	Owner string
}

func TestFetch(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:pagination?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))
	for i := 1; i <= 25; i++ {
		owner := "a"
		if i%5 == 0 {
			owner = "b"
		}
		require.NoError(t, db.Create(&row{ID: i, Owner: owner}).Error)
	}

	onlyA := func(db *gorm.DB) *gorm.DB { return db.Where("owner = ?", "a") }

	page, err := Fetch[row](db, PageRequest{Page: 2, PageSize: 15}, onlyA, "id DESC")
	require.NoError(t, err)
	assert.Equal(t, int64(20), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 5)
	assert.Equal(t, 6, page.Data[0].ID, fmt.Sprintf("%+v", page.Data))
	assert.Equal(t, 1, page.Data[4].ID)
}

func TestFetch_InsideOuterTransaction(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:pagination_tx?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))

	all := func(db *gorm.DB) *gorm.DB { return db }

	err = db.Transaction(func(tx *gorm.DB) error {
		for i := 1; i <= 3; i++ {
			if err := tx.Create(&row{ID: i, Owner: "a"}).Error; err != nil {
				return err
			}
		}
		page, err := Fetch[row](tx, PageRequest{PageSize: 2}, all, "id")
		if err != nil {
			return err
		}
		assert.Equal(t, int64(3), page.TotalItems)
		assert.Len(t, page.Data, 2)
		return nil
	})
	require.NoError(t, err)
}

func TestSnapshotOptions(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:pagination_opts?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	assert.Nil(t, snapshotOptions(db), "sqlite uses the driver's default transaction")
}
