package proposal

// Status is the lifecycle state of a proposal. Closed is terminal.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Proposal is a governance item collecting per-user boolean votes until closed.
type Proposal struct {
	ID          string          `json:"id" bson:"id"`
	Title       string          `json:"title" bson:"title"`
	Description string          `json:"description" bson:"description"`
	Votes       map[string]bool `json:"votes" bson:"votes"`
	Status      Status          `json:"status" bson:"status"`
}

// IsOpen reports whether the proposal still accepts votes.
func (p *Proposal) IsOpen() bool {
	return p.Status == StatusOpen
}
