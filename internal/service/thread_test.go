package service

import (
	"Amem/internal/model"
	"Amem/internal/pkg/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id uint64, parent *uint64, at time.Time) *model.PostComment {
	return &model.PostComment{ID: id, PostID: 42, ParentID: parent, CreatedAt: at, UpdatedAt: at}
}

func TestBuildThreadGroupsRepliesUnderParent(t *testing.T) {
	base := time.Now()
	list := []*model.PostComment{
		comment(9, util.PtrUint64(7), base.Add(3*time.Second)),
		comment(7, nil, base),
		comment(8, nil, base.Add(time.Second)),
		comment(10, util.PtrUint64(7), base.Add(2*time.Second)),
	}

	thread := BuildThread(list)
	require.Len(t, thread, 2)
	assert.Equal(t, uint64(7), thread[0].Comment.ID)
	assert.Equal(t, uint64(8), thread[1].Comment.ID)

	require.Len(t, thread[0].Replies, 2)
	assert.Equal(t, uint64(10), thread[0].Replies[0].ID)
	assert.Equal(t, uint64(9), thread[0].Replies[1].ID)
	assert.Empty(t, thread[1].Replies)
}

func TestBuildThreadPromotesOrphans(t *testing.T) {
	base := time.Now()
	list := []*model.PostComment{
		comment(8, nil, base),
		comment(9, util.PtrUint64(7), base.Add(time.Second)), // 7 已删除
		comment(11, util.PtrUint64(9), base.Add(2*time.Second)),
		comment(12, nil, base.Add(3*time.Second)),
	}

	thread := BuildThread(list)
	require.Len(t, thread, 3)
	assert.Equal(t, []uint64{8, 9, 12}, []uint64{thread[0].Comment.ID, thread[1].Comment.ID, thread[2].Comment.ID})
	require.Len(t, thread[1].Replies, 1)
	assert.Equal(t, uint64(11), thread[1].Replies[0].ID)
}

func TestBuildThreadFlattensDeepChains(t *testing.T) {
	base := time.Now()
	list := []*model.PostComment{
		comment(1, nil, base),
		comment(2, util.PtrUint64(1), base.Add(time.Second)),
		comment(3, util.PtrUint64(2), base.Add(2*time.Second)),
	}

	thread := BuildThread(list)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 2)
	assert.Equal(t, uint64(3), thread[0].Replies[1].ID)
}

func TestBuildThreadSurvivesCycles(t *testing.T) {
	base := time.Now()
	list := []*model.PostComment{
		comment(1, util.PtrUint64(2), base),
		comment(2, util.PtrUint64(1), base.Add(time.Second)),
	}

	thread := BuildThread(list)
	total := 0
	for _, n := range thread {
		total += 1 + len(n.Replies)
	}
	assert.Equal(t, 2, total)
}

func TestBuildThreadSameTimestampUsesID(t *testing.T) {
	at := time.Now()
	thread := BuildThread([]*model.PostComment{comment(5, nil, at), comment(3, nil, at)})
	require.Len(t, thread, 2)
	assert.Equal(t, uint64(3), thread[0].Comment.ID)
	assert.Empty(t, BuildThread(nil))
}
