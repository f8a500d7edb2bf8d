package models

// Group is a node in an owner's group tree. ParentID is nil for top-level
// groups. Nothing in the schema stops a parent chain from forming a cycle;
// readers resolve the parent a single step at a time and never chase the
// chain.
type Group struct {
	BaseModel
	Name     string  `json:"name" gorm:"type:varchar(150);not null"`
	OwnerID  string  `json:"owner" gorm:"type:uuid;not null;index"`
	ParentID *string `json:"parent,omitempty" gorm:"type:uuid;index"`
}

func (Group) TableName() string {
	return "groups"
}

type Participant struct {
	BaseModel
	Name    string `json:"name" gorm:"type:varchar(150);not null"`
	GroupID string `json:"group" gorm:"type:uuid;not null;index"`
}

func (Participant) TableName() string {
	return "participants"
}

// Vote is one cast ballot. Multiplicity is the count: a participant's tally
// is the number of vote rows referencing them.
type Vote struct {
	BaseModel
	ParticipantID string `json:"participant" gorm:"type:uuid;not null;index"`
}

func (Vote) TableName() string {
	return "votes"
}
