package rbac

// Default policy. The question bank itself is open-access and not gated here;
// these permissions cover sessions, reports, and the admin console.
var RolePermissions = map[string][]string{
	"student": {
		"paper:view",
		"session:*",
		"report:create",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
