package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipegram-app/recipegram/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_CreatesSchema(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{"users", "recipes", "ingredients", "steps", "step_photos"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "expected table %s to exist", table)
	}
}

func TestNewDatabase_Idempotent(t *testing.T) {
	dbPath := "./test_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	user := &entities.User{Username: "chef", PasswordHash: "x"}
	require.NoError(t, db.DB.Create(user).Error)
	require.NoError(t, db.Close())

	// Re-opening must not lose existing rows
	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	require.NoError(t, db.DB.Model(&entities.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewDatabase_ForeignKeysEnforced(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// An ingredient pointing at a missing recipe must be rejected
	err := db.DB.Create(&entities.Ingredient{RecipeID: 9999, Name: "Water", Amount: "1L"}).Error
	assert.Error(t, err)
}

func TestNewDatabase_UsernameUniqueCaseInsensitive(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.DB.Create(&entities.User{Username: "Chef1", PasswordHash: "x"}).Error)

	err := db.DB.Create(&entities.User{Username: "CHEF1", PasswordHash: "y"}).Error
	assert.Error(t, err, "case variant of an existing username must violate the unique index")
}
