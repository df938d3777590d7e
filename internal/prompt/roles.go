package prompt

// Role is an expert persona: a display label and the system instruction sent
// as the first turn of every request made under it.
type Role struct {
	Label        string `json:"label"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

const (
	InsuranceLabel = "Insurance/Life-planning expert"
	CareerLabel    = "Career/Education advisor"
)

// roles is the closed set of expert roles in display order. The first entry
// is the default.
var roles = [...]Role{
	{Label: InsuranceLabel, SystemPrompt: insuranceSystemPrompt},
	{Label: CareerLabel, SystemPrompt: careerSystemPrompt},
}

// Default returns the role used when a label does not match.
func Default() Role {
	return roles[0]
}

// All returns the roles in display order. The returned slice is a copy.
func All() []Role {
	out := make([]Role, len(roles))
	copy(out, roles[:])
	return out
}

func Labels() []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.Label)
	}
	return out
}

// Lookup finds a role by exact label.
func Lookup(label string) (Role, bool) {
	for _, r := range roles {
		if r.Label == label {
			return r, true
		}
	}
	return Role{}, false
}

// ResolveRole returns the role for label, or Default when there is no match.
func ResolveRole(label string) Role {
	if r, ok := Lookup(label); ok {
		return r
	}
	return Default()
}

// Resolve returns the system prompt for label. Unknown labels silently get
// the default role's prompt.
func Resolve(label string) string {
	return ResolveRole(label).SystemPrompt
}
