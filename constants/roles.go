package constants

// User roles. Locality members file and upvote grievances; government
// officials triage them and read statistics.
const (
	RoleLocalityMember     = "LocalityMember"
	RoleGovernmentOfficial = "GovernmentOfficial"
)

func IsValidRole(role string) bool {
	return role == RoleLocalityMember || role == RoleGovernmentOfficial
}
