package models

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"testing"
	"time"

	"nikodex/config"
	"nikodex/db"
	"nikodex/locks"
	"nikodex/processing"
	"nikodex/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// setup gives every test a fresh in-memory database and image store
func setup(t *testing.T) *storage.MemoryStorage {
	t.Helper()
	require.NoError(t, db.Open(sqlite.Open("file::memory:?_foreign_keys=on")))
	require.NoError(t, Migrate())
	t.Cleanup(func() { _ = db.Close() })

	mem := storage.NewMemoryStorage()
	storage.Default = mem

	config.PICK_TIMEZONE = "UTC"
	config.COMMENT_RATE_LIMIT = 5
	PickLocker = locks.Noop{}
	return mem
}

func setNow(t *testing.T, now time.Time) *time.Time {
	t.Helper()
	current := now
	nowFunc = func() time.Time { return current }
	t.Cleanup(func() { nowFunc = time.Now })
	return &current
}

func createUser(t *testing.T, username string, isAdmin bool) *User {
	t.Helper()
	u, err := UserCreate(UserChange{Username: username, Password: "secret", Description: "about " + username})
	require.NoError(t, err)
	if isAdmin {
		require.NoError(t, UserSetAdmin(username, true))
		u.IsAdmin = true
	}
	return &u
}

func createNiko(t *testing.T, name string, owner *User) Niko {
	t.Helper()
	n := Niko{Name: name, Description: name + " description", Author: "legacy author"}
	if owner != nil {
		n.AuthorID = &owner.ID
	}
	require.NoError(t, db.Instance.Create(&n).Error)
	return n
}

func pngUpload(t *testing.T) processing.Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return processing.Upload{ContentType: "image/png", Size: int64(buf.Len()), Reader: &buf}
}

func userName(i int) string {
	return fmt.Sprintf("user_%d", i)
}

func setupCount(model any, count *int64) error {
	return db.Instance.Model(model).Count(count).Error
}
