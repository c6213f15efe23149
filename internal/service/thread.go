package service

import (
	"Amem/internal/model"
	"sort"
)

// ThreadNode 一级评论及其回复
type ThreadNode struct {
	Comment *model.PostComment
	Replies []*model.PostComment
}

// BuildThread 将帖子下的评论投影为两层结构。
// 父评论已被删除的回复提升为一级评论，更深的历史数据挂到最近的可展示祖先下。
// 一级评论与回复都按创建时间排序。
func BuildThread(comments []*model.PostComment) []*ThreadNode {
	sorted := make([]*model.PostComment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	byID := make(map[uint64]*model.PostComment, len(sorted))
	for _, c := range sorted {
		byID[c.ID] = c
	}

	nodes := make(map[uint64]*ThreadNode, len(sorted))
	roots := make([]*ThreadNode, 0)
	for _, c := range sorted {
		anchor := displayAnchor(c, byID)
		if anchor == c.ID {
			node := &ThreadNode{Comment: c, Replies: make([]*model.PostComment, 0)}
			nodes[c.ID] = node
			roots = append(roots, node)
		}
	}
	for _, c := range sorted {
		anchor := displayAnchor(c, byID)
		if anchor != c.ID {
			node := nodes[anchor]
			node.Replies = append(node.Replies, c)
		}
	}
	return roots
}

// displayAnchor 沿父链向上找到最终展示为一级评论的祖先（可能是自己）
func displayAnchor(c *model.PostComment, byID map[uint64]*model.PostComment) uint64 {
	cur := c
	visited := map[uint64]struct{}{cur.ID: {}}
	for cur.ParentID != nil {
		parent, ok := byID[*cur.ParentID]
		if !ok {
			break
		}
		if _, seen := visited[parent.ID]; seen {
			return c.ID
		}
		visited[parent.ID] = struct{}{}
		cur = parent
	}
	return cur.ID
}
