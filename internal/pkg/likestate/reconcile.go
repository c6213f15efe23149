package likestate

// Phase 单个点赞对象在客户端的同步阶段
type Phase int

const (
	Synced      Phase = iota // 展示值与最近一次服务端值一致
	Pending                  // 已乐观翻转，请求在途
	Reconciling              // 已收到服务端结果，正在比对
)

func (p Phase) String() string {
	switch p {
	case Synced:
		return "synced"
	case Pending:
		return "pending"
	case Reconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// Snapshot 点赞数与当前用户是否已点赞
type Snapshot struct {
	LikesCount int64 `json:"likesCount"`
	UserLiked  bool  `json:"userLiked"`
}

// Flip 模拟一次点赞切换，计数不小于 0
func Flip(s Snapshot) Snapshot {
	if s.UserLiked {
		s.UserLiked = false
		if s.LikesCount > 0 {
			s.LikesCount--
		}
		return s
	}
	s.UserLiked = true
	s.LikesCount++
	return s
}

// Outcome 对账结果，Drift 表示乐观值与服务端值不一致
type Outcome struct {
	Displayed Snapshot
	Drift     bool
}

// Reconcile 始终采用服务端值，即使乐观值恰好相同
func Reconcile(optimistic, authoritative Snapshot) Outcome {
	return Outcome{
		Displayed: authoritative,
		Drift:     optimistic != authoritative,
	}
}
