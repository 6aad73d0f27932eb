package keyring

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"
)

// Creates a database for testing. For the sake of simplicity, this only uses
// the SQLite engine and creates a new database on every invocation since it
// is relatively cheap to do so.
func setUpDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	testDBFile := filepath.Join(t.TempDir(), "test.db")
	db, err := Initialize(sqlite.Open(testDBFile), false)
	if err != nil {
		t.Fatalf("error initializing test database: %s", err)
	}
	return db
}

func generateKey(t *testing.T) *Key {
	t.Helper()
	return &Key{
		Name:   strconv.Itoa(rand.Int()),
		Secret: []byte(fmt.Sprintf("secret-%d", rand.Int())),
	}
}

func seedRandomKeys(t *testing.T, db *gorm.DB) {
	t.Helper()
	for i := 0; i < 10; i++ {
		if err := CreateKey(db, generateKey(t)); err != nil {
			t.Fatalf("error seeding test key: %v", err)
		}
	}
}

func assertKeysMatch(t *testing.T, expected *Key, got *Key) {
	t.Helper()
	if expected == nil && got == nil {
		return
	}

	if got != nil {
		got.DeletedAt = gorm.DeletedAt{}
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("key did not match expected; diff:\n%s", diff)
	}
}

func TestShutdown(t *testing.T) {
	db := setUpDatabase(t)

	if err := Shutdown(db); err != nil {
		t.Fatalf("Shutdown() unexpected error: %v", err)
	}

	// The underlying connection is closed, so further queries must fail.
	if _, err := ListKeys(db); err == nil {
		t.Error("expected queries after Shutdown() to fail")
	}
}

func TestCreateKey_Validation(t *testing.T) {
	db := setUpDatabase(t)

	tests := []struct {
		name    string
		key     *Key
		wantErr error
	}{
		{
			name:    "empty name",
			key:     &Key{Secret: []byte("secret")},
			wantErr: ErrMissingName,
		},
		{
			name:    "empty secret",
			key:     &Key{Name: "nosecret"},
			wantErr: ErrMissingSecret,
		},
		{
			name: "valid key",
			key:  &Key{Name: "valid", Secret: []byte("secret")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CreateKey(db, tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindKeyByName(t *testing.T) {
	db := setUpDatabase(t)
	seedRandomKeys(t, db)

	testKey := generateKey(t)
	tests := []struct {
		name     string
		seedData func(db *gorm.DB)
		want     *Key
		wantErr  bool
	}{
		{
			name:     "key does not exist",
			seedData: func(db *gorm.DB) {},
			want:     nil,
			wantErr:  false,
		},
		{
			name: "key exists",
			seedData: func(db *gorm.DB) {
				if err := CreateKey(db, testKey); err != nil {
					t.Fatalf("error creating test key: %v", err)
				}
			},
			want:    testKey,
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.seedData(db)

			got, err := FindKeyByName(db, testKey.Name)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindKeyByName() error = %v, wantErr %v", err, tt.wantErr)
			}
			assertKeysMatch(t, tt.want, got)
		})
	}
}

func TestListKeys(t *testing.T) {
	db := setUpDatabase(t)

	names := []string{"charlie", "alpha", "bravo"}
	for _, name := range names {
		if err := CreateKey(db, &Key{Name: name, Secret: []byte("secret")}); err != nil {
			t.Fatalf("error creating test key: %v", err)
		}
	}

	keys, err := ListKeys(db)
	if err != nil {
		t.Fatalf("ListKeys() unexpected error: %v", err)
	}

	var gotNames []string
	for _, k := range keys {
		gotNames = append(gotNames, k.Name)
	}
	if diff := cmp.Diff([]string{"alpha", "bravo", "charlie"}, gotNames); diff != "" {
		t.Errorf("ListKeys() order mismatch; diff:\n%s", diff)
	}
}

func TestDeleteKey(t *testing.T) {
	db := setUpDatabase(t)

	testKey := generateKey(t)
	if err := CreateKey(db, testKey); err != nil {
		t.Fatalf("error creating test key: %v", err)
	}

	if err := DeleteKey(db, testKey); err != nil {
		t.Fatalf("DeleteKey() unexpected error: %v", err)
	}

	// Soft-deleted keys are invisible to scoped lookups but still present.
	got, err := FindKeyByName(db, testKey.Name)
	if err != nil {
		t.Fatalf("FindKeyByName() unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected soft-deleted key to be hidden, got %+v", got)
	}

	unscoped, err := FindUnscopedKey(db, testKey.Name)
	if err != nil {
		t.Fatalf("FindUnscopedKey() unexpected error: %v", err)
	}
	if unscoped == nil {
		t.Error("expected soft-deleted key to be visible unscoped")
	}
}

func TestPermanentlyDeleteKey(t *testing.T) {
	db := setUpDatabase(t)

	testKey := generateKey(t)
	if err := CreateKey(db, testKey); err != nil {
		t.Fatalf("error creating test key: %v", err)
	}

	if err := PermanentlyDeleteKey(db, testKey); err != nil {
		t.Fatalf("PermanentlyDeleteKey() unexpected error: %v", err)
	}

	unscoped, err := FindUnscopedKey(db, testKey.Name)
	if err != nil {
		t.Fatalf("FindUnscopedKey() unexpected error: %v", err)
	}
	if unscoped != nil {
		t.Errorf("expected hard-deleted key to be gone, got %+v", unscoped)
	}
}
