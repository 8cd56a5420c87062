package game

// Phase 定義房間狀態機的各個階段
type Phase string

const (
	PhaseWaiting     Phase = "WAITING"      // 等待玩家加入
	PhasePrompt      Phase = "PROMPT"       // 玩家輪流提交提示詞
	PhaseDiscussion  Phase = "DISCUSSION"   // 討論與投票
	PhaseRoundResult Phase = "ROUND_RESULT" // 回合結算，等待下一回合
	PhaseEnded       Phase = "ENDED"        // 遊戲結束
)

// SkipVote 是「棄票」的投票目標哨兵值，表示本回合不淘汰任何人
const SkipVote = "skip"

// Outcome 描述一次投票結算的結果類型
type Outcome string

const (
	OutcomeEliminated Outcome = "eliminated"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeTie        Outcome = "tie"
)
