package profile

// Role is the participant's self-declared role in the DAO.
type Role string

const (
	RoleLearner      Role = "learner"
	RoleProfessional Role = "professional"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleLearner || r == RoleProfessional
}

// Profile is a registered participant keyed by an externally supplied id
// (usually the caller's principal).
type Profile struct {
	ID     string   `json:"id" bson:"id"`
	Name   string   `json:"name" bson:"name"`
	Skills []string `json:"skills" bson:"skills"`
	Role   Role     `json:"role" bson:"role"`
	// Reputation is reserved; no exposed operation changes it.
	Reputation int `json:"reputation" bson:"reputation"`
}
