package redis

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBitSize = 1 << 20

func TestBloomAdd(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBloomRepo(client, testBitSize)

	for _, offset := range repo.getOffset("c-1") {
		mock.ExpectSetBit(KeyCommentBloom, int64(offset), 1).SetVal(0)
	}

	assert.NoError(t, repo.Add(context.Background(), "c-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloomExists_AllBitsSet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBloomRepo(client, testBitSize)

	for _, offset := range repo.getOffset("c-1") {
		mock.ExpectGetBit(KeyCommentBloom, int64(offset)).SetVal(1)
	}

	ok, err := repo.Exists(context.Background(), "c-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBloomExists_MissingBit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBloomRepo(client, testBitSize)

	offsets := repo.getOffset("nope")
	mock.ExpectGetBit(KeyCommentBloom, int64(offsets[0])).SetVal(1)
	mock.ExpectGetBit(KeyCommentBloom, int64(offsets[1])).SetVal(0)
	mock.ExpectGetBit(KeyCommentBloom, int64(offsets[2])).SetVal(1)

	ok, err := repo.Exists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBloomBulkAdd(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBloomRepo(client, testBitSize)

	for _, id := range []string{"c-1", "c-2"} {
		for _, offset := range repo.getOffset(id) {
			mock.ExpectSetBit(KeyCommentBloom, int64(offset), 1).SetVal(0)
		}
	}

	assert.NoError(t, repo.BulkAdd(context.Background(), []string{"c-1", "c-2"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloomBulkAdd_Empty(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBloomRepo(client, testBitSize)

	assert.NoError(t, repo.BulkAdd(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOffset_Deterministic(t *testing.T) {
	repo := NewRedisBloomRepo(nil, testBitSize)

	a := repo.getOffset("c-1")
	b := repo.getOffset("c-1")
	assert.Equal(t, a, b)
	for _, offset := range a {
		assert.Less(t, offset, uint64(testBitSize))
	}
}
