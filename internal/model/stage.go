package model

import "time"

type Stage string

const (
	StageSourced            Stage = "sourced"
	StageScreening          Stage = "screening"
	StageShortlisted        Stage = "shortlisted"
	StageInterviewScheduled Stage = "interview_scheduled"
	StageOfferExtended      Stage = "offer_extended"
	StageOfferAccepted      Stage = "offer_accepted"
	StageJoined             Stage = "joined"
	StageRejected           Stage = "rejected"
	StageWithdrawn          Stage = "withdrawn"
)

// ForwardOrder is the advance chain. reject branches off every non-terminal
// stage and withdraw off every stage before joined; neither appears here.
var ForwardOrder = []Stage{
	StageSourced,
	StageScreening,
	StageShortlisted,
	StageInterviewScheduled,
	StageOfferExtended,
	StageOfferAccepted,
	StageJoined,
}

// Terminal reports whether no further transition may leave the stage.
func (s Stage) Terminal() bool {
	return s == StageJoined || s == StageRejected || s == StageWithdrawn
}

// Next returns the forward target for advance, or "" for terminal stages.
func (s Stage) Next() Stage {
	for i, stage := range ForwardOrder {
		if stage == s && i+1 < len(ForwardOrder) {
			return ForwardOrder[i+1]
		}
	}
	return ""
}

// StageEvent is the append-only audit record for one transition. From is
// empty on the synthetic creation event; replaying a candidate's events in
// order reconstructs its live stage.
type StageEvent struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	JobID       *int64    `json:"job_id,omitempty"`
	From        Stage     `json:"from_stage,omitempty"`
	To          Stage     `json:"to_stage"`
	Actor       string    `json:"actor"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
