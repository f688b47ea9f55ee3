package domain

// AuthPayload is the claim set the service trusts from a bearer token
type AuthPayload struct {
	UserID     string   `json:"sub"`
	Username   string   `json:"username"`
	Permission []string `json:"permission"`
}

// PermissionAdmin allows validating reference solutions for problem authoring
const PermissionAdmin = "admin"

func (p AuthPayload) HasPermission(perm string) bool {
	for _, granted := range p.Permission {
		if granted == perm {
			return true
		}
	}
	return false
}
