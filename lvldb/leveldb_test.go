// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPutDelete(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	key := []byte("key")

	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err))

	assert.NoError(t, db.Put(key, []byte("value")))

	v, err := db.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	has, err := db.Has(key)
	assert.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, db.Delete(key))

	has, err = db.Has(key)
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestBatch(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := db.NewBatch()
	assert.NoError(t, b.Put([]byte("k1"), []byte("v1")))
	assert.NoError(t, b.Put([]byte("k2"), []byte("v2")))
	assert.Equal(t, 2, b.Len())

	// nothing visible before Write
	has, err := db.Has([]byte("k1"))
	assert.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, b.Write())

	v, err := db.Get([]byte("k2"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)
}
